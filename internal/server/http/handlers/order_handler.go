package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/dto"
)

// OrderHandler manages order placement and lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUser(c), placeOrderRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "order placed successfully", dto.NewOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	detail, err := h.facade.Order(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewOrderDetailResponse(detail))
}

// List handles GET /api/orders. Customers see their own orders only.
func (h *OrderHandler) List(c *gin.Context) {
	filter := model.OrderFilter{
		UserID: CurrentUser(c).ID,
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

// UpdateStatus handles PATCH /api/orders/:id/status (admin).
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "order status updated", dto.NewOrderResponse(order))
}

func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
