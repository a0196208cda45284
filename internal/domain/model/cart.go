package model

// CartItem is one product reference held in a user's cart.
type CartItem struct {
	ProductID string
	Quantity  int
}

// CartLine is a cart item resolved against the live catalog.
type CartLine struct {
	Product  Product
	Quantity int
	Subtotal float64
}

// Cart is the resolved view of a user's cart.
type Cart struct {
	Lines []CartLine
	Total float64
}
