package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/cache"
	"github.com/envents/envents-server/internal/helpers"
	"github.com/envents/envents-server/internal/models"
)

const (
	cacheKeyVenueCities     = "catalog:venue_cities"
	cacheKeyVenueCategories = "catalog:venue_categories"
)

// imageUploader is the slice of helpers.Uploader the listing services
// need for photo handling.
type imageUploader interface {
	UploadImages(ctx context.Context, files []*multipart.FileHeader, folder string) ([]string, []string, error)
	DeleteImages(ctx context.Context, publicIDs []string) error
}

// VenueService handles venue submission, moderation, browsing and the
// cached catalog lists.
type VenueService struct {
	repo     models.VenueRepo
	catalog  *cache.TTLCache
	uploader imageUploader
	logger   *slog.Logger
}

func NewVenueService(repo models.VenueRepo, catalog *cache.TTLCache, uploader imageUploader, logger *slog.Logger) *VenueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VenueService{repo: repo, catalog: catalog, uploader: uploader, logger: logger}
}

// SubmitVenue creates a venue listing in pending status for moderation.
// Photos are uploaded before the document is written so a failed upload
// never leaves a half-saved listing.
func (s *VenueService) SubmitVenue(ctx context.Context, ownerId uuid.UUID, venue *models.Venue, photos []*multipart.FileHeader) (*models.Venue, error) {
	if venue == nil {
		return nil, fmt.Errorf("venue is nil")
	}
	if err := models.Validate.Struct(venue); err != nil {
		return nil, fmt.Errorf("invalid venue: %w", err)
	}
	if err := venue.Pricing.ValidatePricing(); err != nil {
		return nil, err
	}

	for i := range venue.CateringPackages {
		pkg := &venue.CateringPackages[i]
		if pkg.Price <= 0 {
			return nil, fmt.Errorf("catering package %q must have a positive price", pkg.Name)
		}
		if pkg.ID == uuid.Nil {
			pkg.ID = uuid.New()
		}
	}

	var photoIDs []string
	if len(photos) > 0 {
		urls, publicIDs, err := s.uploader.UploadImages(ctx, photos, helpers.VenueImageFolder)
		if err != nil {
			s.cleanupPhotos(ctx, publicIDs)
			return nil, fmt.Errorf("failed to upload venue photos: %w", err)
		}
		venue.Images = urls
		photoIDs = publicIDs
	}

	venue.Id = uuid.New()
	venue.OwnerId = ownerId
	venue.Slug = helpers.GenerateSlug(venue.Name)
	venue.Status = models.ListingPending

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		s.cleanupPhotos(ctx, photoIDs)
		return nil, err
	}

	s.logger.Info("venue submitted for review", "venue_id", venue.Id, "owner_id", ownerId)
	return venue, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	return s.repo.GetVenueByID(ctx, id)
}

func (s *VenueService) GetVenueBySlug(ctx context.Context, slug string) (*models.Venue, error) {
	return s.repo.GetVenueBySlug(ctx, slug)
}

// VenueUpdateInput is the owner-editable subset of a venue listing.
// Moderation status, slug, images and timestamps are never taken from
// the client.
type VenueUpdateInput struct {
	Name             string                        `json:"name" validate:"required"`
	Description      string                        `json:"description"`
	Categories       []string                      `json:"categories"`
	City             string                        `json:"city" validate:"required"`
	Address          string                        `json:"address"`
	Capacity         int                           `json:"capacity" validate:"required,gt=0"`
	Pricing          models.Pricing                `json:"pricing"`
	CateringPackages []models.VenueCateringPackage `json:"catering_packages"`
	ContactNumber    string                        `json:"contact_number"`
	ContactEmail     string                        `json:"contact_email"`
}

// UpdateVenue lets the owner edit their listing. Only the fields in
// VenueUpdateInput are applied; the edited listing goes back to pending
// so it passes moderation again before reappearing publicly.
func (s *VenueService) UpdateVenue(ctx context.Context, ownerId, id uuid.UUID, input VenueUpdateInput) (*models.Venue, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid venue: %w", err)
	}
	if err := input.Pricing.ValidatePricing(); err != nil {
		return nil, err
	}
	for i := range input.CateringPackages {
		pkg := &input.CateringPackages[i]
		if pkg.Price <= 0 {
			return nil, fmt.Errorf("catering package %q must have a positive price", pkg.Name)
		}
		if pkg.ID == uuid.Nil {
			pkg.ID = uuid.New()
		}
	}

	venue, err := s.repo.GetVenueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue.OwnerId != ownerId {
		return nil, fmt.Errorf("venue not found or not owned by user")
	}

	venue.Name = input.Name
	venue.Description = input.Description
	venue.Categories = input.Categories
	venue.City = input.City
	venue.Address = input.Address
	venue.Capacity = input.Capacity
	venue.Pricing = input.Pricing
	venue.CateringPackages = input.CateringPackages
	venue.ContactNumber = input.ContactNumber
	venue.ContactEmail = input.ContactEmail
	venue.Status = models.ListingPending

	if err := s.repo.UpdateVenue(ctx, venue); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return venue, nil
}

func (s *VenueService) DeleteVenue(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) error {
	if err := s.repo.DeleteVenue(ctx, id, ownerId); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

// BrowseVenues is the public listing page: approved venues only.
func (s *VenueService) BrowseVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, int64, error) {
	filter.Status = models.ListingApproved
	return s.repo.BrowseVenues(ctx, filter)
}

func (s *VenueService) OwnerVenues(ctx context.Context, ownerId uuid.UUID) ([]models.Venue, error) {
	return s.repo.GetVenuesByOwner(ctx, ownerId)
}

// PendingVenues is the admin moderation queue.
func (s *VenueService) PendingVenues(ctx context.Context, page, limit int) ([]models.Venue, int64, error) {
	return s.repo.BrowseVenues(ctx, models.VenueFilter{
		Status: models.ListingPending,
		Page:   page,
		Limit:  limit,
	})
}

// ModerateVenue applies an admin approve/reject decision.
func (s *VenueService) ModerateVenue(ctx context.Context, id uuid.UUID, approve bool) error {
	status := models.ListingRejected
	if approve {
		status = models.ListingApproved
	}
	if err := s.repo.SetVenueStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateCatalog()
	s.logger.Info("venue moderated", "venue_id", id, "status", status)
	return nil
}

// Cities returns the distinct cities of approved venues, served from the
// catalog cache until its TTL lapses.
func (s *VenueService) Cities(ctx context.Context) ([]string, error) {
	if v, ok := s.catalog.Get(cacheKeyVenueCities); ok {
		return v.([]string), nil
	}
	cities, err := s.repo.DistinctVenueCities(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(cacheKeyVenueCities, cities)
	return cities, nil
}

// Categories returns the distinct categories of approved venues, cached
// the same way as Cities.
func (s *VenueService) Categories(ctx context.Context) ([]string, error) {
	if v, ok := s.catalog.Get(cacheKeyVenueCategories); ok {
		return v.([]string), nil
	}
	categories, err := s.repo.DistinctVenueCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(cacheKeyVenueCategories, categories)
	return categories, nil
}

func (s *VenueService) invalidateCatalog() {
	s.catalog.Invalidate(cacheKeyVenueCities)
	s.catalog.Invalidate(cacheKeyVenueCategories)
}

// cleanupPhotos best-effort deletes uploaded assets whose listing never
// got persisted.
func (s *VenueService) cleanupPhotos(ctx context.Context, publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}
	if err := s.uploader.DeleteImages(ctx, publicIDs); err != nil {
		s.logger.Error("failed to clean up venue photos", "error", err)
	}
}
