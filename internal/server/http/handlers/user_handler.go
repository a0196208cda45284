package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/server/http/dto"
	"github.com/shopline/storefront/internal/usecase"
)

// UserHandler serves the authenticated account's profile.
type UserHandler struct {
	facade AuthFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade AuthFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Profile handles GET /api/users/me.
func (h *UserHandler) Profile(c *gin.Context) {
	respondData(c, http.StatusOK, dto.NewUserResponse(CurrentUser(c)))
}

// UpdateProfile handles PATCH /api/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	params := usecase.UpdateProfileParams{
		Name:         req.Name,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	}
	if req.Address != nil {
		address := req.Address.ToAddress()
		params.Address = &address
	}

	user, err := h.facade.UpdateProfile(c.Request.Context(), CurrentUser(c).ID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword handles PUT /api/users/me/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.facade.ChangePassword(c.Request.Context(), CurrentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "password updated", nil)
}
