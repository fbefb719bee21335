package domain

// Delivery statuses
const (
	DeliveryPending   = "pending"
	DeliveryConfirmed = "confirmed"
	DeliverySuccess   = "success"
	DeliveryCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// MaxLineQuantity bounds a single cart or order line.
const MaxLineQuantity = 10_000

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var DeliveryStatuses = []string{
	DeliveryPending,
	DeliveryConfirmed,
	DeliverySuccess,
	DeliveryCancelled,
}

var PaymentStatuses = []string{
	PaymentPaid,
	PaymentUnpaid,
}
