package model

import "time"

// OrderStatus describes order fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// statusTransitions is the authoritative transition table. Delivered and
// Cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ValidOrderStatus reports whether s names a known status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table permits moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is the closed set of accepted payment options.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "creditCard"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bankTransfer"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPaypal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// PaymentDetails carries card data recorded for creditCard orders. Stored as
// given, not tokenized.
type PaymentDetails struct {
	CardNumber string
	ExpiryDate string
}

// ShippingAddress is the full postal address required at checkout. Every
// field is mandatory.
type ShippingAddress struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Complete reports whether all address fields are filled.
func (a ShippingAddress) Complete() bool {
	return a.Name != "" && a.Email != "" && a.Phone != "" && a.Address != "" &&
		a.City != "" && a.PostalCode != "" && a.Country != ""
}

// RequestedItem is one product+quantity entry of a placement request, before
// validation against the catalog.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

// OrderItem is a line item with price and name snapshotted at placement time.
// Snapshots are immutable: an order is a receipt, not a live view.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
	Subtotal  float64
}

// Order is one purchase transaction. Owner name/email are denormalized at
// creation and do not follow later profile edits.
type Order struct {
	ID              string
	UserID          string
	UserName        string
	UserEmail       string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PaymentDetails  *PaymentDetails
	Status          OrderStatus
	TotalPrice      float64
	CreatedAt       time.Time
}

// OrderItemDetail pairs a stored line item with the current catalog record for
// display. Product is nil when the product has since been removed. Stored
// snapshot values remain authoritative for pricing.
type OrderItemDetail struct {
	OrderItem
	Product *Product
}

// OrderDetail is the single-order read model with line items resolved against
// the live catalog.
type OrderDetail struct {
	Order
	ItemDetails []OrderItemDetail
}

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	UserID string
	Status OrderStatus
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// OrderEvent is an outbox row recorded transactionally with order mutations
// and delivered to the broker by the dispatcher.
type OrderEvent struct {
	ID        int64
	OrderID   string
	Subject   string
	Payload   []byte
	Published bool
	CreatedAt time.Time
}

// Outbox event subjects.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)
