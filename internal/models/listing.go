package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListingStatus tracks admin moderation of submitted venues and services.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

// PricingType selects which rate field a listing charges by.
type PricingType string

const (
	PricingHourly PricingType = "HOURLY"
	PricingFlat   PricingType = "FLAT"
)

// Pricing is shared by venues and services. Exactly one of the two rate
// fields is populated, matching Type; ValidatePricing enforces that at the
// save boundary so readers never have to re-check.
type Pricing struct {
	Type        PricingType `bson:"type" json:"type" validate:"required,oneof=HOURLY FLAT"`
	HourlyPrice *float64    `bson:"hourly_price,omitempty" json:"hourly_price,omitempty"`
	FlatPrice   *float64    `bson:"flat_price,omitempty" json:"flat_price,omitempty"`
}

// ValidatePricing normalizes the pricing type casing and checks that the
// rate matching the active type is present and positive. The inactive rate
// is cleared so stale values cannot leak into cost computation.
func (p *Pricing) ValidatePricing() error {
	if p == nil {
		return fmt.Errorf("pricing is nil")
	}

	pt := PricingType(strings.ToUpper(strings.TrimSpace(string(p.Type))))
	p.Type = pt

	switch pt {
	case PricingHourly:
		if p.HourlyPrice == nil || *p.HourlyPrice <= 0 {
			return fmt.Errorf("hourly_price must be > 0 for HOURLY pricing")
		}
		p.FlatPrice = nil
	case PricingFlat:
		if p.FlatPrice == nil || *p.FlatPrice <= 0 {
			return fmt.Errorf("flat_price must be > 0 for FLAT pricing")
		}
		p.HourlyPrice = nil
	default:
		return fmt.Errorf("unsupported pricing type: %s (expected HOURLY or FLAT)", p.Type)
	}

	return nil
}

// CalculateCost resolves a cost for the given quantity-or-duration.
// HOURLY multiplies the hourly rate by the quantity (fractional hours are
// fine); FLAT returns the flat rate regardless of quantity.
func (p Pricing) CalculateCost(quantity float64) float64 {
	switch p.Type {
	case PricingHourly:
		if p.HourlyPrice == nil {
			return 0
		}
		return *p.HourlyPrice * quantity
	default:
		if p.FlatPrice == nil {
			return 0
		}
		return *p.FlatPrice
	}
}

// ActiveRate returns the populated rate for the active pricing type.
func (p Pricing) ActiveRate() float64 {
	if p.Type == PricingHourly && p.HourlyPrice != nil {
		return *p.HourlyPrice
	}
	if p.FlatPrice != nil {
		return *p.FlatPrice
	}
	return 0
}

// VenueCateringPackage is a catering add-on sold by the venue itself,
// priced per serving. Distinct from third-party catering services.
type VenueCateringPackage struct {
	ID          uuid.UUID `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name" validate:"required"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64   `bson:"price" json:"price" validate:"required,gt=0"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
}

type Venue struct {
	Id      uuid.UUID `bson:"id" json:"id,omitempty"`
	OwnerId uuid.UUID `bson:"owner_id" json:"owner_id,omitempty"`

	// MARKETING & CORE INFO
	Name        string   `bson:"name" json:"name,omitempty" validate:"required"`
	Description string   `bson:"description" json:"description,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	Slug        string   `bson:"slug" json:"slug,omitempty"`
	Categories  []string `bson:"categories,omitempty" json:"categories,omitempty"`

	// LOCATION & CAPACITY
	City     string `bson:"city" json:"city,omitempty" validate:"required"`
	Address  string `bson:"address" json:"address,omitempty"`
	Capacity int    `bson:"capacity" json:"capacity,omitempty" validate:"required,gt=0"`

	// PRICING & CATERING
	Pricing          Pricing                `bson:"pricing" json:"pricing"`
	CateringPackages []VenueCateringPackage `bson:"catering_packages,omitempty" json:"catering_packages,omitempty"`

	// CONTACT
	ContactNumber string `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	ContactEmail  string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`

	// STATUS & ADMIN
	Status     ListingStatus `bson:"status" json:"status,omitempty"`
	IsFeatured bool          `bson:"is_featured" json:"is_featured"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}

// CateringPackage looks up an active catering package by id.
func (v *Venue) CateringPackage(id uuid.UUID) (*VenueCateringPackage, bool) {
	for i := range v.CateringPackages {
		if v.CateringPackages[i].ID == id && v.CateringPackages[i].IsActive {
			return &v.CateringPackages[i], true
		}
	}
	return nil, false
}

// ServicePackage is a named bundle sold by a service provider at a fixed
// price (a package selection always prices FLAT).
type ServicePackage struct {
	ID          uuid.UUID `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name" validate:"required"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64   `bson:"price" json:"price" validate:"required,gt=0"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	Order       int       `bson:"order" json:"order"`
}

// CategoryCatering marks catering services; a booking cannot carry one of
// these while venue catering is selected.
const CategoryCatering = "catering"

type Service struct {
	Id         uuid.UUID `bson:"id" json:"id,omitempty"`
	ProviderId uuid.UUID `bson:"provider_id" json:"provider_id,omitempty"`

	Name        string   `bson:"name" json:"name,omitempty" validate:"required"`
	Description string   `bson:"description" json:"description,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	Slug        string   `bson:"slug" json:"slug,omitempty"`
	Category    string   `bson:"category" json:"category,omitempty" validate:"required"`
	City        string   `bson:"city,omitempty" json:"city,omitempty"`

	Pricing  Pricing          `bson:"pricing" json:"pricing"`
	Packages []ServicePackage `bson:"packages,omitempty" json:"packages,omitempty"`

	Status     ListingStatus `bson:"status" json:"status,omitempty"`
	IsFeatured bool          `bson:"is_featured" json:"is_featured"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}

// Package looks up an active package by id.
func (s *Service) Package(id uuid.UUID) (*ServicePackage, bool) {
	for i := range s.Packages {
		if s.Packages[i].ID == id && s.Packages[i].IsActive {
			return &s.Packages[i], true
		}
	}
	return nil, false
}

// IsCatering reports whether the service belongs to the catering category.
func (s *Service) IsCatering() bool {
	return strings.EqualFold(strings.TrimSpace(s.Category), CategoryCatering)
}
