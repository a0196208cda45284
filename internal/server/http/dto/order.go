package dto

import (
	"time"

	"github.com/shopline/storefront/internal/domain/model"
)

// PlaceOrderRequest describes the checkout payload.
type PlaceOrderRequest struct {
	Products        []OrderItemRequest      `json:"products"`
	ShippingAddress ShippingAddressPayload  `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentDetails  *PaymentDetailsPayload  `json:"paymentDetails"`
}

// OrderItemRequest is one requested product+quantity pair.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ShippingAddressPayload mirrors the mandatory delivery address.
type ShippingAddressPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentDetailsPayload carries card data for creditCard orders.
type PaymentDetailsPayload struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
}

// UpdateOrderStatusRequest advances the fulfillment status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse is a stored line item with its placement-time snapshot.
type OrderItemResponse struct {
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Price     float64          `json:"price"`
	Quantity  int              `json:"quantity"`
	Subtotal  float64          `json:"subtotal"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// OrderResponse is the public order representation.
type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	UserName        string                 `json:"userName"`
	UserEmail       string                 `json:"userEmail"`
	Products        []OrderItemResponse    `json:"products"`
	ShippingAddress ShippingAddressPayload `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Status          string                 `json:"status"`
	TotalPrice      float64                `json:"totalPrice"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToShippingAddress converts the payload into the domain address.
func (p ShippingAddressPayload) ToShippingAddress() model.ShippingAddress {
	return model.ShippingAddress{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

func newShippingAddressPayload(a model.ShippingAddress) ShippingAddressPayload {
	return ShippingAddressPayload{
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		Address:    a.Address,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// NewOrderResponse converts a domain order for responses. Card details are
// never echoed back.
func NewOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		UserName:        o.UserName,
		UserEmail:       o.UserEmail,
		Products:        make([]OrderItemResponse, 0, len(o.Items)),
		ShippingAddress: newShippingAddressPayload(o.ShippingAddress),
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		TotalPrice:      o.TotalPrice,
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Products = append(resp.Products, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}

// NewOrderDetailResponse converts the detail view, attaching current catalog
// records where the product still exists.
func NewOrderDetailResponse(d *model.OrderDetail) OrderResponse {
	resp := NewOrderResponse(&d.Order)
	resp.Products = resp.Products[:0]
	for _, item := range d.ItemDetails {
		entry := OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			product := NewProductResponse(item.Product)
			entry.Product = &product
		}
		resp.Products = append(resp.Products, entry)
	}
	return resp
}
