package dto

import "github.com/shopline/storefront/internal/domain/model"

// AddToCartRequest puts a product into the cart.
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest overwrites a cart entry quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse is one cart entry priced against the live catalog.
type CartLineResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal float64         `json:"subtotal"`
}

// CartResponse is the resolved cart view.
type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
}

// NewCartResponse converts the resolved cart for responses.
func NewCartResponse(cart *model.Cart) CartResponse {
	resp := CartResponse{
		Items:      make([]CartLineResponse, 0, len(cart.Lines)),
		TotalPrice: cart.Total,
	}
	for _, line := range cart.Lines {
		product := line.Product
		resp.Items = append(resp.Items, CartLineResponse{
			Product:  NewProductResponse(&product),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal,
		})
	}
	return resp
}
