package models

// Status literals are the wire values used by the portals; they are stored
// as-is in the database.

// OrderStatus is the lifecycle state of an Order.
type OrderStatus string

const (
	OrderWaiting    OrderStatus = "menunggu"
	OrderProcessing OrderStatus = "diproses"
	OrderShipped    OrderStatus = "dikirim"
	OrderCompleted  OrderStatus = "selesai"
	OrderCancelled  OrderStatus = "dibatalkan"
)

// PaymentStatus is the settlement state of a Payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "berhasil"
	PaymentFailed    PaymentStatus = "gagal"
)

// PaymentMethod is how the customer pays. COD settles automatically when the
// delivery is confirmed; transfer is validated manually by staff.
type PaymentMethod string

const (
	MethodCOD      PaymentMethod = "cod"
	MethodTransfer PaymentMethod = "transfer"
)

// DeliveryStatus is the courier-driven state of a Delivery.
type DeliveryStatus string

const (
	DeliveryWaiting   DeliveryStatus = "menunggu"
	DeliveryPickedUp  DeliveryStatus = "diambil"
	DeliveryInTransit DeliveryStatus = "dalam_perjalanan"
	DeliveryDelivered DeliveryStatus = "terkirim"
)

// ValidOrderStatus reports whether s is a known order status literal. Admin
// status updates are permissive across the enum; only unknown literals are
// rejected.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderWaiting, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == MethodCOD || m == MethodTransfer
}

// deliveryNext is the forward-only delivery progression. Delivered is
// terminal.
var deliveryNext = map[DeliveryStatus]DeliveryStatus{
	DeliveryWaiting:   DeliveryPickedUp,
	DeliveryPickedUp:  DeliveryInTransit,
	DeliveryInTransit: DeliveryDelivered,
}

// CanTransitionDelivery reports whether a delivery may move from one status
// to the next.
func CanTransitionDelivery(from, to DeliveryStatus) bool {
	return deliveryNext[from] == to && to != ""
}

// DeliveryCascade maps a delivery status to the order status it implies.
// Statuses with no entry leave the order untouched.
var DeliveryCascade = map[DeliveryStatus]OrderStatus{
	DeliveryInTransit: OrderShipped,
	DeliveryDelivered: OrderCompleted,
}
