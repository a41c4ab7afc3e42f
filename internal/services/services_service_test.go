package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envents/envents-server/internal/cache"
	"github.com/envents/envents-server/internal/models"
)

type updateServiceRepo struct {
	models.ServiceRepo
	stored *models.Service
}

func (r *updateServiceRepo) GetServiceByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	if r.stored == nil || r.stored.Id != id {
		return nil, fmt.Errorf("service not found")
	}
	copied := *r.stored
	return &copied, nil
}

func (r *updateServiceRepo) UpdateService(_ context.Context, service *models.Service) error {
	if r.stored == nil || r.stored.Id != service.Id || r.stored.ProviderId != service.ProviderId {
		return fmt.Errorf("service not found or not owned by user")
	}
	copied := *service
	r.stored = &copied
	return nil
}

func TestUpdateServiceGoesBackThroughModeration(t *testing.T) {
	providerId := uuid.New()
	repo := &updateServiceRepo{stored: &models.Service{
		Id:         uuid.New(),
		ProviderId: providerId,
		Name:       "Coastal Sounds DJ",
		Category:   "dj",
		Slug:       "coastal-sounds-dj-ef56ab78",
		Images:     []string{"https://cdn.example.com/dj.jpg"},
		Pricing:    models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(150)},
		Status:     models.ListingApproved,
		CreatedAt:  time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC),
	}}
	svc := NewListingService(repo, cache.New(time.Minute), nil, nil)

	updated, err := svc.UpdateService(context.Background(), providerId, repo.stored.Id, ServiceUpdateInput{
		Name:     "Coastal Sounds DJ",
		Category: "dj",
		Pricing:  models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(180)},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ListingPending, updated.Status)
	assert.Equal(t, "coastal-sounds-dj-ef56ab78", updated.Slug)
	assert.Equal(t, []string{"https://cdn.example.com/dj.jpg"}, updated.Images)
	assert.Equal(t, time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC), updated.CreatedAt)

	_, err = svc.UpdateService(context.Background(), uuid.New(), repo.stored.Id, ServiceUpdateInput{
		Name:     "Coastal Sounds DJ",
		Category: "dj",
		Pricing:  models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(180)},
	})
	require.Error(t, err)
}
