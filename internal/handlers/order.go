package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/tokoku/internal/middleware"
	"github.com/example/tokoku/internal/models"
	"github.com/example/tokoku/internal/services"
	"github.com/example/tokoku/internal/utils"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	db          *gorm.DB
	fulfillment *services.FulfillmentService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, fulfillment *services.FulfillmentService) *OrderHandler {
	return &OrderHandler{db: db, fulfillment: fulfillment}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	TotalPrice      int64              `json:"total_price"`
	ShippingAddress string             `json:"shipping_address"`
	Note            string             `json:"note"`
	PaymentMethod   string             `json:"payment_method"`
}

// CreateOrder places an order for the authenticated customer. The cart lives
// on the client; this endpoint receives its items as-is.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := services.CreateOrderInput{
		UserID:          userID,
		TotalPrice:      req.TotalPrice,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
		Method:          models.PaymentMethod(req.PaymentMethod),
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.fulfillment.CreateOrder(input)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"total_price":  order.TotalPrice,
		},
	})
}

// ListOrders returns the authenticated customer's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns the full order aggregate: items with product name and
// image, payment and delivery. Customers can only read their own orders.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.fulfillment.GetOrderDetail(id)
	if err != nil {
		return serviceError(err)
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if order.UserID != userID && role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
