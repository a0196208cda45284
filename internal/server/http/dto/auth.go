package dto

import (
	"time"

	"github.com/shopline/storefront/internal/domain/model"
)

// RegisterRequest describes the signup payload.
type RegisterRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  AddressPayload `json:"address"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddressPayload mirrors the stored account address.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// UserResponse is the public account representation. The password hash never
// leaves the server.
type UserResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	Address      AddressPayload `json:"address"`
	Role         string         `json:"role"`
	ProfileImage string         `json:"profileImage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ToAddress converts the payload into the domain address.
func (a AddressPayload) ToAddress() model.Address {
	return model.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// NewAddressPayload converts a domain address for responses.
func NewAddressPayload(a model.Address) AddressPayload {
	return AddressPayload{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// NewUserResponse converts a domain user for responses.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      NewAddressPayload(u.Address),
		Role:         string(u.Role),
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}
