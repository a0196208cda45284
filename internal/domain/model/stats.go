package model

// DashboardStats aggregates storefront counters for the admin dashboard.
type DashboardStats struct {
	TotalProducts  int
	TotalOrders    int
	TotalCustomers int
	TotalRevenue   float64
	OrdersByStatus map[OrderStatus]int
	RecentOrders   []Order
	LowStock       []Product
	TopRated       []Product
}
