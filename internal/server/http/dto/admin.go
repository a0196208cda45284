package dto

import "github.com/shopline/storefront/internal/domain/model"

// DashboardResponse aggregates storefront counters for the admin dashboard.
type DashboardResponse struct {
	TotalProducts  int               `json:"totalProducts"`
	TotalOrders    int               `json:"totalOrders"`
	TotalCustomers int               `json:"totalCustomers"`
	TotalRevenue   float64           `json:"totalRevenue"`
	OrdersByStatus map[string]int    `json:"ordersByStatus"`
	RecentOrders   []OrderResponse   `json:"recentOrders"`
	LowStock       []ProductResponse `json:"lowStockProducts"`
	TopRated       []ProductResponse `json:"topRatedProducts"`
}

// NewDashboardResponse converts domain stats for responses.
func NewDashboardResponse(stats *model.DashboardStats) DashboardResponse {
	resp := DashboardResponse{
		TotalProducts:  stats.TotalProducts,
		TotalOrders:    stats.TotalOrders,
		TotalCustomers: stats.TotalCustomers,
		TotalRevenue:   stats.TotalRevenue,
		OrdersByStatus: make(map[string]int, len(stats.OrdersByStatus)),
		RecentOrders:   make([]OrderResponse, 0, len(stats.RecentOrders)),
		LowStock:       make([]ProductResponse, 0, len(stats.LowStock)),
		TopRated:       make([]ProductResponse, 0, len(stats.TopRated)),
	}
	for status, count := range stats.OrdersByStatus {
		resp.OrdersByStatus[string(status)] = count
	}
	for i := range stats.RecentOrders {
		resp.RecentOrders = append(resp.RecentOrders, NewOrderResponse(&stats.RecentOrders[i]))
	}
	for i := range stats.LowStock {
		resp.LowStock = append(resp.LowStock, NewProductResponse(&stats.LowStock[i]))
	}
	for i := range stats.TopRated {
		resp.TopRated = append(resp.TopRated, NewProductResponse(&stats.TopRated[i]))
	}
	return resp
}
