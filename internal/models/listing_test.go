package models

import (
	"testing"

	"github.com/google/uuid"
)

func fptr(f float64) *float64 { return &f }

func TestValidatePricingHourly(t *testing.T) {
	p := &Pricing{Type: "hourly", HourlyPrice: fptr(250), FlatPrice: fptr(9999)}
	if err := p.ValidatePricing(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != PricingHourly {
		t.Errorf("type not normalized, got %s", p.Type)
	}
	if p.FlatPrice != nil {
		t.Error("inactive flat price was not cleared")
	}
}

func TestValidatePricingFlat(t *testing.T) {
	p := &Pricing{Type: PricingFlat, FlatPrice: fptr(500), HourlyPrice: fptr(100)}
	if err := p.ValidatePricing(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HourlyPrice != nil {
		t.Error("inactive hourly price was not cleared")
	}
}

func TestValidatePricingRejectsMissingRate(t *testing.T) {
	cases := []*Pricing{
		{Type: PricingHourly},
		{Type: PricingHourly, HourlyPrice: fptr(0)},
		{Type: PricingHourly, HourlyPrice: fptr(-5)},
		{Type: PricingFlat},
		{Type: PricingFlat, FlatPrice: fptr(0)},
		{Type: "subscription", FlatPrice: fptr(10)},
	}
	for i, p := range cases {
		if err := p.ValidatePricing(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestCalculateCost(t *testing.T) {
	hourly := Pricing{Type: PricingHourly, HourlyPrice: fptr(1000)}
	if got := hourly.CalculateCost(3); got != 3000 {
		t.Errorf("hourly 3h = %v, want 3000", got)
	}
	if got := hourly.CalculateCost(2.5); got != 2500 {
		t.Errorf("hourly 2.5h = %v, want 2500", got)
	}

	flat := Pricing{Type: PricingFlat, FlatPrice: fptr(500)}
	if got := flat.CalculateCost(12); got != 500 {
		t.Errorf("flat = %v, want 500 regardless of quantity", got)
	}
}

func TestVenueCateringPackageLookup(t *testing.T) {
	active := VenueCateringPackage{ID: uuid.New(), Name: "Gold", Price: 20, IsActive: true}
	inactive := VenueCateringPackage{ID: uuid.New(), Name: "Old", Price: 10, IsActive: false}
	v := &Venue{CateringPackages: []VenueCateringPackage{active, inactive}}

	if _, ok := v.CateringPackage(active.ID); !ok {
		t.Error("active package should be found")
	}
	if _, ok := v.CateringPackage(inactive.ID); ok {
		t.Error("inactive package should not be offered")
	}
	if _, ok := v.CateringPackage(uuid.New()); ok {
		t.Error("unknown package should not be found")
	}
}

func TestServiceIsCatering(t *testing.T) {
	s := &Service{Category: " Catering "}
	if !s.IsCatering() {
		t.Error("catering category should match case-insensitively")
	}
	s.Category = "photography"
	if s.IsCatering() {
		t.Error("photography is not catering")
	}
}
