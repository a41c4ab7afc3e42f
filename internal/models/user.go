package models

import (
	"time"

	"github.com/google/uuid"
)

// Marketplace account roles. Venue owners and service providers submit
// listings; admins moderate them and drive booking lifecycle.
const (
	RoleCustomer        = "customer"
	RoleVenueOwner      = "venue_owner"
	RoleServiceProvider = "service_provider"
	RoleAdmin           = "admin"
)

type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	FullName        string    `db:"fullname" json:"fullname"`
	Email           string    `db:"email" json:"email" `
	Password        string    `db:"password" json:"password" `
	IsVerified      bool      `db:"is_verified" json:"is_verified"`
	Bio             string    `db:"bio" json:"bio"`
	Role            string    `db:"role" json:"role"`
	Location        string    `db:"location" json:"location"`
	PhoneNumber     string    `db:"phone_number" json:"phone_number"`
	AvatarURL       string    `db:"avatar_url" json:"avatar_url"`
	BusinessName    string    `db:"business_name" json:"business_name,omitempty"`
	BusinessAddress string    `db:"business_address" json:"business_address,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

func (u *User) IsVenueOwner() bool {
	return u.Role == RoleVenueOwner
}

func (u *User) IsServiceProvider() bool {
	return u.Role == RoleServiceProvider
}
