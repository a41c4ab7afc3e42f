package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
)

// AnalyticsService records listing page views and serves view stats back
// to listing owners.
type AnalyticsService struct {
	views  models.ListingViewRepo
	logger *slog.Logger
}

func NewAnalyticsService(views models.ListingViewRepo, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{views: views, logger: logger}
}

// TrackView records a listing view. Tracking is best effort; a failure is
// logged and never surfaces to the page that triggered it.
func (a *AnalyticsService) TrackView(ctx context.Context, listingId, ownerId uuid.UUID, kind models.FavouriteKind, viewerKey string) {
	err := a.views.TrackView(ctx, models.ListingView{
		ListingId: listingId,
		OwnerId:   ownerId,
		Kind:      kind,
		ViewerKey: viewerKey,
	})
	if err != nil {
		a.logger.Error("failed to track listing view", "listing_id", listingId, "error", err)
	}
}

func (a *AnalyticsService) ListingStats(ctx context.Context, listingId uuid.UUID) (*models.ListingViewStats, error) {
	return a.views.GetListingViews(ctx, listingId)
}

func (a *AnalyticsService) OwnerStats(ctx context.Context, ownerId uuid.UUID) ([]models.ListingViewStats, error) {
	return a.views.GetOwnerViewStats(ctx, ownerId)
}
