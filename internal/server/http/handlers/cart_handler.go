package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/dto"
	"github.com/shopline/storefront/internal/usecase"
)

// CartHandler serves the authenticated user's cart and checkout.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewCartResponse(cart))
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := CurrentUser(c).ID
	if err := h.facade.AddToCart(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, userID)
}

// SetQuantity handles PUT /api/cart/items/:productId.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := CurrentUser(c).ID
	if err := h.facade.SetCartQuantity(c.Request.Context(), userID, c.Param("productId"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, userID)
}

// Remove handles DELETE /api/cart/items/:productId.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := CurrentUser(c).ID
	if err := h.facade.RemoveFromCart(c.Request.Context(), userID, c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, userID)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "cart cleared", nil)
}

// Checkout handles POST /api/cart/checkout. The order is assembled from the
// stored cart; the request supplies only the delivery and payment details.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), CurrentUser(c), placeOrderRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "order placed successfully", dto.NewOrderResponse(order))
}

func (h *CartHandler) respondCart(c *gin.Context, userID string) {
	cart, err := h.facade.Cart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewCartResponse(cart))
}

func placeOrderRequest(req dto.PlaceOrderRequest) usecase.PlaceOrderRequest {
	out := usecase.PlaceOrderRequest{
		ShippingAddress: req.ShippingAddress.ToShippingAddress(),
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
	}
	for _, item := range req.Products {
		out.Items = append(out.Items, model.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if req.PaymentDetails != nil {
		out.PaymentDetails = &model.PaymentDetails{
			CardNumber: req.PaymentDetails.CardNumber,
			ExpiryDate: req.PaymentDetails.ExpiryDate,
		}
	}
	return out
}
