package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/tokoku/internal/middleware"
	"github.com/example/tokoku/internal/models"
	"github.com/example/tokoku/internal/services"
	"github.com/example/tokoku/internal/utils"
)

// CourierHandler manages the courier portal endpoints.
type CourierHandler struct {
	db          *gorm.DB
	fulfillment *services.FulfillmentService
}

// NewCourierHandler constructs CourierHandler.
func NewCourierHandler(db *gorm.DB, fulfillment *services.FulfillmentService) *CourierHandler {
	return &CourierHandler{db: db, fulfillment: fulfillment}
}

// ListDeliveries returns the courier's active deliveries (everything not yet
// delivered), newest first, with the order and its items.
func (h *CourierHandler) ListDeliveries(c *fiber.Ctx) error {
	courierID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var deliveries []models.Delivery
	if err := h.db.
		Preload("Order.Items.Product").
		Where("courier_id = ? AND status != ?", courierID, models.DeliveryDelivered).
		Order("created_at desc").
		Find(&deliveries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": deliveries})
}

type setDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// SetDeliveryStatus advances a delivery. Moving to dalam_perjalanan marks
// the order dikirim; moving to terkirim completes the order and settles a
// COD payment.
func (h *CourierHandler) SetDeliveryStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req setDeliveryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	if err := h.fulfillment.SetDeliveryStatus(id, models.DeliveryStatus(req.Status)); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// History returns the courier's completed deliveries, most recently
// delivered first.
func (h *CourierHandler) History(c *fiber.Ctx) error {
	courierID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND status = ?", courierID, models.DeliveryDelivered)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var deliveries []models.Delivery
	if err := query.Preload("Order").
		Order("delivered_at desc").
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

// Stats returns the courier's delivery counters for the portal dashboard.
func (h *CourierHandler) Stats(c *fiber.Ctx) error {
	courierID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var pending int64
	if err := h.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND status = ?", courierID, models.DeliveryWaiting).
		Count(&pending).Error; err != nil {
		return err
	}

	var inProgress int64
	if err := h.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND status IN ?", courierID,
			[]models.DeliveryStatus{models.DeliveryPickedUp, models.DeliveryInTransit}).
		Count(&inProgress).Error; err != nil {
		return err
	}

	var completed int64
	if err := h.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND status = ?", courierID, models.DeliveryDelivered).
		Count(&completed).Error; err != nil {
		return err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	var today int64
	if err := h.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND delivered_at >= ?", courierID, startOfDay).
		Count(&today).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pending":          pending,
			"in_progress":      inProgress,
			"completed":        completed,
			"today_deliveries": today,
		},
	})
}
