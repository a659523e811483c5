package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/tokoku/internal/models"
	"github.com/example/tokoku/internal/services"
	"github.com/example/tokoku/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db          *gorm.DB
	fulfillment *services.FulfillmentService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, fulfillment *services.FulfillmentService) *AdminHandler {
	return &AdminHandler{db: db, fulfillment: fulfillment}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var pendingOrders int64
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderWaiting).
		Count(&pendingOrders).Error; err != nil {
		return err
	}

	var totalDeliveries int64
	if err := h.db.Model(&models.Delivery{}).Count(&totalDeliveries).Error; err != nil {
		return err
	}

	// Orders by status
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	// Revenue counts only completed orders.
	var revenue int64
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderCompleted).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":      totalUsers,
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"pending_orders":   pendingOrders,
			"total_deliveries": totalDeliveries,
			"revenue":          revenue,
			"orders_by_status": ordersByStatus,
		},
	})
}

// ListAllOrders returns all orders with pagination, filtering, and user info.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"order_number ILIKE ? OR shipping_address ILIKE ?",
			"%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
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

type setOrderStatusRequest struct {
	Status string `json:"status"`
}

// SetOrderStatus lets an admin move an order to any known status, e.g. to
// cancel it or to force it into processing. The delivery and payment records
// are left untouched.
func (h *AdminHandler) SetOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req setOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	if err := h.fulfillment.SetOrderStatus(id, models.OrderStatus(req.Status)); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListAllDeliveries returns deliveries of all non-cancelled orders, newest
// first.
func (h *AdminHandler) ListAllDeliveries(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Delivery{}).
		Joins("JOIN orders ON orders.id = deliveries.order_id").
		Where("orders.status != ?", models.OrderCancelled)

	if status := c.Query("status"); status != "" {
		query = query.Where("deliveries.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var deliveries []models.Delivery
	if err := query.Preload("Order").Preload("Courier").
		Order("deliveries.created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&deliveries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    deliveries,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type assignCourierRequest struct {
	DeliveryID string `json:"delivery_id"`
	CourierID  string `json:"courier_id"`
}

// AssignCourier binds a delivery to a courier-role user.
func (h *AdminHandler) AssignCourier(c *fiber.Ctx) error {
	var req assignCourierRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.DeliveryID == "" || req.CourierID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "delivery_id and courier_id are required")
	}

	deliveryID, err := uuid.Parse(req.DeliveryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid delivery id")
	}
	courierID, err := uuid.Parse(req.CourierID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid courier id")
	}

	if err := h.fulfillment.AssignCourier(deliveryID, courierID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListCouriers returns all courier-role users, for the assignment picker.
func (h *AdminHandler) ListCouriers(c *fiber.Ctx) error {
	var couriers []models.User
	if err := h.db.
		Select("id, name, email, phone, status").
		Where("role = ?", models.RoleCourier).
		Order("name asc").
		Find(&couriers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": couriers})
}

// ListAllUsers returns all registered users with pagination and search.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"name ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Select("id, name, email, role, address, phone, status, created_at, updated_at").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateUserRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UpdateUser changes a user's role or account status.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	status := req.Status
	if status == "" {
		status = models.UserActive
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"role":   req.Role,
		"status": status,
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
