package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envents/envents-server/internal/cache"
	"github.com/envents/envents-server/internal/models"
)

type countingVenueRepo struct {
	models.VenueRepo
	cityCalls int
}

func (c *countingVenueRepo) DistinctVenueCities(_ context.Context) ([]string, error) {
	c.cityCalls++
	return []string{"Accra", "Kumasi", "Takoradi"}, nil
}

type updateVenueRepo struct {
	models.VenueRepo
	stored *models.Venue
}

func (r *updateVenueRepo) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	if r.stored == nil || r.stored.Id != id {
		return nil, fmt.Errorf("venue not found")
	}
	copied := *r.stored
	return &copied, nil
}

func (r *updateVenueRepo) UpdateVenue(_ context.Context, venue *models.Venue) error {
	if r.stored == nil || r.stored.Id != venue.Id || r.stored.OwnerId != venue.OwnerId {
		return fmt.Errorf("venue not found or not owned by user")
	}
	copied := *venue
	r.stored = &copied
	return nil
}

func approvedStoredVenue(ownerId uuid.UUID) *models.Venue {
	return &models.Venue{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		Name:      "Harbour Hall",
		City:      "Accra",
		Capacity:  120,
		Slug:      "harbour-hall-ab12cd34",
		Images:    []string{"https://cdn.example.com/harbour.jpg"},
		Pricing:   models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(800)},
		Status:    models.ListingApproved,
		CreatedAt: time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC),
	}
}

func venueUpdate() VenueUpdateInput {
	return VenueUpdateInput{
		Name:     "Harbour Hall",
		City:     "Accra",
		Capacity: 150,
		Pricing:  models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(900)},
	}
}

type fakeUploader struct {
	failAfter int // fail once this many files uploaded; <0 never fails
	deleted   [][]string
}

func (u *fakeUploader) UploadImages(_ context.Context, files []*multipart.FileHeader, _ string) ([]string, []string, error) {
	var urls, publicIDs []string
	for i, fh := range files {
		if u.failAfter >= 0 && i >= u.failAfter {
			return nil, publicIDs, fmt.Errorf("upload rejected: %s", fh.Filename)
		}
		urls = append(urls, "https://cdn.example.com/"+fh.Filename)
		publicIDs = append(publicIDs, "venues/"+fh.Filename)
	}
	return urls, publicIDs, nil
}

func (u *fakeUploader) DeleteImages(_ context.Context, publicIDs []string) error {
	u.deleted = append(u.deleted, publicIDs)
	return nil
}

type failingCreateVenueRepo struct {
	models.VenueRepo
}

func (failingCreateVenueRepo) CreateVenue(_ context.Context, _ *models.Venue) error {
	return fmt.Errorf("write failed")
}

func submittableVenue() *models.Venue {
	return &models.Venue{
		Name:     "Harbour Hall",
		City:     "Accra",
		Capacity: 120,
		Pricing:  models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(800)},
	}
}

func photoHeaders(names ...string) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, 0, len(names))
	for _, n := range names {
		headers = append(headers, &multipart.FileHeader{Filename: n})
	}
	return headers
}

func TestSubmitVenueCleansUpPartialUpload(t *testing.T) {
	uploader := &fakeUploader{failAfter: 1}
	svc := NewVenueService(&countingVenueRepo{}, cache.New(time.Minute), uploader, nil)

	_, err := svc.SubmitVenue(context.Background(), uuid.New(), submittableVenue(), photoHeaders("a.jpg", "b.jpg"))
	require.Error(t, err)
	require.Len(t, uploader.deleted, 1, "the already-uploaded asset must be deleted")
	assert.Equal(t, []string{"venues/a.jpg"}, uploader.deleted[0])
}

func TestSubmitVenueCleansUpAfterCreateFailure(t *testing.T) {
	uploader := &fakeUploader{failAfter: -1}
	svc := NewVenueService(failingCreateVenueRepo{}, cache.New(time.Minute), uploader, nil)

	_, err := svc.SubmitVenue(context.Background(), uuid.New(), submittableVenue(), photoHeaders("a.jpg", "b.jpg"))
	require.Error(t, err)
	require.Len(t, uploader.deleted, 1)
	assert.Equal(t, []string{"venues/a.jpg", "venues/b.jpg"}, uploader.deleted[0])
}

func TestUpdateVenueGoesBackThroughModeration(t *testing.T) {
	ownerId := uuid.New()
	repo := &updateVenueRepo{stored: approvedStoredVenue(ownerId)}
	svc := NewVenueService(repo, cache.New(time.Minute), nil, nil)

	updated, err := svc.UpdateVenue(context.Background(), ownerId, repo.stored.Id, venueUpdate())
	require.NoError(t, err)

	assert.Equal(t, models.ListingPending, updated.Status)
	assert.Equal(t, models.ListingPending, repo.stored.Status)
	assert.Equal(t, 150, repo.stored.Capacity)
}

func TestUpdateVenuePreservesServerFields(t *testing.T) {
	ownerId := uuid.New()
	original := approvedStoredVenue(ownerId)
	repo := &updateVenueRepo{stored: original}
	svc := NewVenueService(repo, cache.New(time.Minute), nil, nil)

	updated, err := svc.UpdateVenue(context.Background(), ownerId, original.Id, venueUpdate())
	require.NoError(t, err)

	assert.Equal(t, original.Slug, updated.Slug)
	assert.Equal(t, original.Images, updated.Images)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, ownerId, updated.OwnerId)
}

func TestUpdateVenueRejectsNonOwner(t *testing.T) {
	repo := &updateVenueRepo{stored: approvedStoredVenue(uuid.New())}
	svc := NewVenueService(repo, cache.New(time.Minute), nil, nil)

	_, err := svc.UpdateVenue(context.Background(), uuid.New(), repo.stored.Id, venueUpdate())
	require.Error(t, err)
	assert.Equal(t, models.ListingApproved, repo.stored.Status, "failed update must not touch the listing")
}

func TestCitiesServedFromCache(t *testing.T) {
	repo := &countingVenueRepo{}
	svc := NewVenueService(repo, cache.New(time.Minute), nil, nil)

	first, err := svc.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Accra", "Kumasi", "Takoradi"}, first)

	_, err = svc.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.cityCalls, "second read should hit the cache")
}

func TestCitiesNotCachedWithZeroTTL(t *testing.T) {
	repo := &countingVenueRepo{}
	svc := NewVenueService(repo, cache.New(0), nil, nil)

	_, err := svc.Cities(context.Background())
	require.NoError(t, err)
	_, err = svc.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.cityCalls)
}
