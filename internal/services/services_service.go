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

const cacheKeyServiceCategories = "catalog:service_categories"

// ListingService handles event-service submission, moderation and
// browsing. Named to avoid colliding with the package name.
type ListingService struct {
	repo     models.ServiceRepo
	catalog  *cache.TTLCache
	uploader imageUploader
	logger   *slog.Logger
}

func NewListingService(repo models.ServiceRepo, catalog *cache.TTLCache, uploader imageUploader, logger *slog.Logger) *ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{repo: repo, catalog: catalog, uploader: uploader, logger: logger}
}

// SubmitService creates a service listing in pending status.
func (s *ListingService) SubmitService(ctx context.Context, providerId uuid.UUID, service *models.Service, photos []*multipart.FileHeader) (*models.Service, error) {
	if service == nil {
		return nil, fmt.Errorf("service is nil")
	}
	if err := models.Validate.Struct(service); err != nil {
		return nil, fmt.Errorf("invalid service: %w", err)
	}
	if err := service.Pricing.ValidatePricing(); err != nil {
		return nil, err
	}

	for i := range service.Packages {
		pkg := &service.Packages[i]
		if pkg.Price <= 0 {
			return nil, fmt.Errorf("package %q must have a positive price", pkg.Name)
		}
		if pkg.ID == uuid.Nil {
			pkg.ID = uuid.New()
		}
	}

	var photoIDs []string
	if len(photos) > 0 {
		urls, publicIDs, err := s.uploader.UploadImages(ctx, photos, helpers.ServiceImageFolder)
		if err != nil {
			s.cleanupPhotos(ctx, publicIDs)
			return nil, fmt.Errorf("failed to upload service photos: %w", err)
		}
		service.Images = urls
		photoIDs = publicIDs
	}

	service.Id = uuid.New()
	service.ProviderId = providerId
	service.Slug = helpers.GenerateSlug(service.Name)
	service.Status = models.ListingPending

	if err := s.repo.CreateService(ctx, service); err != nil {
		s.cleanupPhotos(ctx, photoIDs)
		return nil, err
	}

	s.logger.Info("service submitted for review", "service_id", service.Id, "provider_id", providerId)
	return service, nil
}

func (s *ListingService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}

func (s *ListingService) GetServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return s.repo.GetServiceBySlug(ctx, slug)
}

// ServiceUpdateInput is the provider-editable subset of a service
// listing. Moderation status, slug, images and timestamps are never
// taken from the client.
type ServiceUpdateInput struct {
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description"`
	Category    string                  `json:"category" validate:"required"`
	City        string                  `json:"city"`
	Pricing     models.Pricing          `json:"pricing"`
	Packages    []models.ServicePackage `json:"packages"`
}

// UpdateService lets the provider edit their listing. Only the fields in
// ServiceUpdateInput are applied; the edited listing goes back to pending
// so it passes moderation again before reappearing publicly.
func (s *ListingService) UpdateService(ctx context.Context, providerId, id uuid.UUID, input ServiceUpdateInput) (*models.Service, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid service: %w", err)
	}
	if err := input.Pricing.ValidatePricing(); err != nil {
		return nil, err
	}
	for i := range input.Packages {
		pkg := &input.Packages[i]
		if pkg.Price <= 0 {
			return nil, fmt.Errorf("package %q must have a positive price", pkg.Name)
		}
		if pkg.ID == uuid.Nil {
			pkg.ID = uuid.New()
		}
	}

	service, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service.ProviderId != providerId {
		return nil, fmt.Errorf("service not found or not owned by user")
	}

	service.Name = input.Name
	service.Description = input.Description
	service.Category = input.Category
	service.City = input.City
	service.Pricing = input.Pricing
	service.Packages = input.Packages
	service.Status = models.ListingPending

	if err := s.repo.UpdateService(ctx, service); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(cacheKeyServiceCategories)
	return service, nil
}

func (s *ListingService) DeleteService(ctx context.Context, id uuid.UUID, providerId uuid.UUID) error {
	if err := s.repo.DeleteService(ctx, id, providerId); err != nil {
		return err
	}
	s.catalog.Invalidate(cacheKeyServiceCategories)
	return nil
}

// BrowseServices is the public listing page: approved services only.
func (s *ListingService) BrowseServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int64, error) {
	filter.Status = models.ListingApproved
	return s.repo.BrowseServices(ctx, filter)
}

func (s *ListingService) ProviderServices(ctx context.Context, providerId uuid.UUID) ([]models.Service, error) {
	return s.repo.GetServicesByProvider(ctx, providerId)
}

func (s *ListingService) PendingServices(ctx context.Context, page, limit int) ([]models.Service, int64, error) {
	return s.repo.BrowseServices(ctx, models.ServiceFilter{
		Status: models.ListingPending,
		Page:   page,
		Limit:  limit,
	})
}

func (s *ListingService) ModerateService(ctx context.Context, id uuid.UUID, approve bool) error {
	status := models.ListingRejected
	if approve {
		status = models.ListingApproved
	}
	if err := s.repo.SetServiceStatus(ctx, id, status); err != nil {
		return err
	}
	s.catalog.Invalidate(cacheKeyServiceCategories)
	s.logger.Info("service moderated", "service_id", id, "status", status)
	return nil
}

// cleanupPhotos best-effort deletes uploaded assets whose listing never
// got persisted.
func (s *ListingService) cleanupPhotos(ctx context.Context, publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}
	if err := s.uploader.DeleteImages(ctx, publicIDs); err != nil {
		s.logger.Error("failed to clean up service photos", "error", err)
	}
}

// ServiceCategories returns the distinct categories of approved services,
// cached until the catalog TTL lapses.
func (s *ListingService) ServiceCategories(ctx context.Context) ([]string, error) {
	if v, ok := s.catalog.Get(cacheKeyServiceCategories); ok {
		return v.([]string), nil
	}
	categories, err := s.repo.DistinctServiceCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(cacheKeyServiceCategories, categories)
	return categories, nil
}
