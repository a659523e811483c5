package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a customer purchase. It owns its items, exactly one Payment and
// exactly one Delivery, all created together at placement.
type Order struct {
	BaseModel
	OrderNumber     string      `gorm:"uniqueIndex" json:"order_number"`
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	TotalPrice      int64       `json:"total_price"`
	Status          OrderStatus `gorm:"default:menunggu" json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	Note            string      `json:"note"`
	Items           []OrderItem `json:"items,omitempty"`
	Payment         *Payment    `json:"payment,omitempty"`
	Delivery        *Delivery   `json:"delivery,omitempty"`
}

// OrderItem is a line of an order. UnitPrice is snapshotted at placement and
// never follows later product price changes.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// Payment is the 1:1 settlement record of an order. COD payments move to
// berhasil automatically when the delivery reaches terkirim.
type Payment struct {
	BaseModel
	OrderID  uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	Method   PaymentMethod `json:"method"`
	Amount   int64         `json:"amount"`
	Status   PaymentStatus `gorm:"default:pending" json:"status"`
	ProofURL string        `json:"proof_url"`
}

// Delivery is the 1:1 shipment record of an order. CourierID stays nil until
// an admin assigns a courier.
type Delivery struct {
	BaseModel
	OrderID      uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	Order        *Order         `json:"order,omitempty"`
	CourierID    *uuid.UUID     `gorm:"type:uuid;index" json:"courier_id"`
	Courier      *User          `gorm:"foreignKey:CourierID" json:"courier,omitempty"`
	Status       DeliveryStatus `gorm:"default:menunggu" json:"status"`
	DispatchedAt *time.Time     `json:"dispatched_at"`
	DeliveredAt  *time.Time     `json:"delivered_at"`
	ProofURL     string         `json:"proof_url"`
	Note         string         `json:"note"`
}
