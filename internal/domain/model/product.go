package model

import "time"

// Product describes a catalog entry. Stock is mutated only by order placement
// and administrative updates.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	Images      []string
	Stock       int
	AvgRating   float64
	ReviewCount int
	CreatedAt   time.Time
}

// Review is a customer rating attached to a product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}
