package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/dto"
)

// AdminHandler serves administrative listings and the dashboard.
type AdminHandler struct {
	facade StorefrontFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade StorefrontFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	filter := model.UserFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		Role:  model.Role(c.Query("role")),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}

	users, total, err := h.facade.Users(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		response = append(response, dto.NewUserResponse(&users[i]))
	}
	respondList(c, response, len(response), total, pageOrDefault(filter.Page), clampLimit(limitOrDefault(filter.Limit, 10), 100))
}

// User handles GET /api/admin/users/:id.
func (h *AdminHandler) User(c *gin.Context) {
	user, err := h.facade.UserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewUserResponse(user))
}

// Orders handles GET /api/admin/orders. Unlike the customer listing, it is
// not scoped to one user.
func (h *AdminHandler) Orders(c *gin.Context) {
	filter := model.OrderFilter{
		UserID: c.Query("userId"),
		Status: model.OrderStatus(c.Query("status")),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	if from, ok := queryTime(c, "startDate"); ok {
		filter.From = &from
	}
	if to, ok := queryTime(c, "endDate"); ok {
		filter.To = &to
	}

	orders, total, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, dto.NewOrderResponse(&orders[i]))
	}
	respondList(c, response, len(response), total, pageOrDefault(filter.Page), clampLimit(limitOrDefault(filter.Limit, 10), 100))
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.facade.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewDashboardResponse(stats))
}
