package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/middleware"
)

// CurrentUser extracts the authenticated account from context. It is nil on
// routes outside AuthRequired.
func CurrentUser(c *gin.Context) *model.User {
	val, ok := c.Get(middleware.UserContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*model.User)
	return user
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

func respondList(c *gin.Context, data any, results, total, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"results":    results,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
		"data":       data,
	})
}

// respondError maps domain errors onto HTTP statuses and the error envelope.
func respondError(c *gin.Context, err error) {
	var (
		validation   *domainErrors.ValidationError
		insufficient *domainErrors.InsufficientStockError
		transition   *domainErrors.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		respondFailure(c, http.StatusBadRequest, validation.Message)
	case errors.As(err, &insufficient):
		respondFailure(c, http.StatusBadRequest, insufficient.Error())
	case errors.As(err, &transition):
		respondFailure(c, http.StatusBadRequest, transition.Error())
	case errors.Is(err, domainErrors.ErrNotFound):
		respondFailure(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		respondFailure(c, http.StatusConflict, "already exists")
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		respondFailure(c, http.StatusUnauthorized, "invalid credentials")
	default:
		respondFailure(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondFailure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
