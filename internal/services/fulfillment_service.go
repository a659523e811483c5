package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/tokoku/internal/models"
)

// FulfillmentService owns the coupled lifecycle of an order, its payment and
// its delivery: placement, admin status changes, courier assignment and the
// courier-driven delivery progression with its cascades.
type FulfillmentService struct {
	db              *gorm.DB
	restockOnCancel bool
}

// NewFulfillmentService constructs a FulfillmentService.
func NewFulfillmentService(db *gorm.DB, restockOnCancel bool) *FulfillmentService {
	return &FulfillmentService{db: db, restockOnCancel: restockOnCancel}
}

// OrderItemInput is one requested line of a new order. UnitPrice is the
// price the customer saw; it is snapshotted into the order item.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	Items           []OrderItemInput
	TotalPrice      int64
	ShippingAddress string
	Note            string
	Method          models.PaymentMethod
}

// CreateOrder places an order: the order row, its items, one pending payment
// and one waiting delivery are written and each referenced product's stock is
// decremented, all in a single transaction. Stock may go negative; there is
// no floor check.
func (s *FulfillmentService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if input.ShippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	if !models.ValidPaymentMethod(input.Method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.Method)
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item needs a product id and a positive quantity", ErrValidation)
		}
	}

	order := models.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          input.UserID,
		TotalPrice:      input.TotalPrice,
		Status:          models.OrderWaiting,
		ShippingAddress: input.ShippingAddress,
		Note:            input.Note,
	}

	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			OrderID: order.ID,
			Method:  input.Method,
			Amount:  input.TotalPrice,
			Status:  models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		order.Payment = &payment

		delivery := models.Delivery{
			OrderID: order.ID,
			Status:  models.DeliveryWaiting,
		}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}
		order.Delivery = &delivery

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return &order, nil
}

// SetOrderStatus writes a new order status. Any known status may be set to
// any other; only unknown literals are rejected. When the restock policy is
// enabled, cancelling an order restores the stock of its items.
func (s *FulfillmentService) SetOrderStatus(orderID uuid.UUID, status models.OrderStatus) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}

		restock := s.restockOnCancel &&
			status == models.OrderCancelled && order.Status != models.OrderCancelled
		if restock {
			var items []models.OrderItem
			if err := tx.Find(&items, "order_id = ?", order.ID).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&order).Update("status", status).Error
	})
}

// AssignCourier binds a delivery to a courier. Reassignment overwrites the
// previous courier with no history kept; assigning the same courier twice is
// a no-op beyond touching updated_at.
func (s *FulfillmentService) AssignCourier(deliveryID, courierID uuid.UUID) error {
	if deliveryID == uuid.Nil || courierID == uuid.Nil {
		return fmt.Errorf("%w: delivery id and courier id are required", ErrValidation)
	}

	var delivery models.Delivery
	if err := s.db.First(&delivery, "id = ?", deliveryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: delivery %s", ErrNotFound, deliveryID)
		}
		return err
	}

	return s.db.Model(&delivery).Update("courier_id", courierID).Error
}

// SetDeliveryStatus advances a delivery along menunggu -> diambil ->
// dalam_perjalanan -> terkirim and applies the cascades implied by the new
// status: dalam_perjalanan marks the order dikirim, terkirim marks the order
// selesai and settles a COD payment. The delivery write and its cascades
// commit or roll back together.
func (s *FulfillmentService) SetDeliveryStatus(deliveryID uuid.UUID, status models.DeliveryStatus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var delivery models.Delivery
		if err := tx.First(&delivery, "id = ?", deliveryID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: delivery %s", ErrNotFound, deliveryID)
			}
			return err
		}

		if !models.CanTransitionDelivery(delivery.Status, status) {
			return fmt.Errorf("%w: delivery cannot move from %q to %q",
				ErrConflict, delivery.Status, status)
		}

		now := time.Now()
		updates := map[string]interface{}{"status": status}
		switch status {
		case models.DeliveryPickedUp, models.DeliveryInTransit:
			updates["dispatched_at"] = &now
		case models.DeliveryDelivered:
			updates["delivered_at"] = &now
		}

		if err := tx.Model(&delivery).Updates(updates).Error; err != nil {
			return err
		}

		orderStatus, ok := models.DeliveryCascade[status]
		if !ok {
			return nil
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", delivery.OrderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: order %s for delivery %s", ErrNotFound, delivery.OrderID, deliveryID)
			}
			return err
		}
		if err := tx.Model(&order).Update("status", orderStatus).Error; err != nil {
			return err
		}

		if status == models.DeliveryDelivered {
			if err := tx.Model(&models.Payment{}).
				Where("order_id = ? AND method = ?", order.ID, models.MethodCOD).
				Update("status", models.PaymentSucceeded).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetOrderDetail assembles an order with its items (including product name
// and image), payment and delivery.
func (s *FulfillmentService) GetOrderDetail(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items.Product").
		Preload("Payment").
		Preload("Delivery").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	return &order, nil
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber builds a human-facing order number from the current
// time and a random suffix. Collisions are treated as negligible and not
// retried.
func generateOrderNumber() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(orderNumberAlphabet)))
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("INV-%d-%s", time.Now().UnixMilli(), suffix)
}
