package model

import "time"

// Role distinguishes customers from store administrators.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Address is a customer's stored postal address.
type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

// User describes a registered storefront account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      Address
	Role         Role
	ProfileImage string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may access administrative operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFilter narrows administrative user listings.
type UserFilter struct {
	Name  string
	Email string
	Role  Role
	Page  int
	Limit int
}
