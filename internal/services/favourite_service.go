package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
)

// FavouriteService saves and removes listings on a user's favourites.
type FavouriteService struct {
	repo     models.FavouriteRepo
	venues   models.VenueRepo
	services models.ServiceRepo
}

func NewFavouriteService(repo models.FavouriteRepo, venues models.VenueRepo, services models.ServiceRepo) *FavouriteService {
	return &FavouriteService{repo: repo, venues: venues, services: services}
}

// AddFavourite saves a listing, denormalizing its name, image and city so
// the favourites page renders without extra lookups. Saving the same
// listing twice just refreshes the snapshot.
func (f *FavouriteService) AddFavourite(ctx context.Context, userId uuid.UUID, kind models.FavouriteKind, listingId uuid.UUID) (*models.Favourite, error) {
	item := models.FavouriteItem{ListingId: listingId, Kind: kind}

	switch kind {
	case models.FavouriteVenue:
		venue, err := f.venues.GetVenueByID(ctx, listingId)
		if err != nil {
			return nil, err
		}
		item.Name = venue.Name
		item.City = venue.City
		if len(venue.Images) > 0 {
			item.Image = venue.Images[0]
		}
	case models.FavouriteService:
		service, err := f.services.GetServiceByID(ctx, listingId)
		if err != nil {
			return nil, err
		}
		item.Name = service.Name
		item.City = service.City
		if len(service.Images) > 0 {
			item.Image = service.Images[0]
		}
	default:
		return nil, fmt.Errorf("unknown favourite kind: %q", kind)
	}

	return f.repo.AddFavourite(ctx, userId, item)
}

func (f *FavouriteService) RemoveFavourite(ctx context.Context, userId uuid.UUID, listingId uuid.UUID) (*models.Favourite, error) {
	return f.repo.RemoveFavourite(ctx, userId, listingId)
}

func (f *FavouriteService) GetFavourites(ctx context.Context, userId uuid.UUID) (*models.Favourite, error) {
	return f.repo.GetFavourites(ctx, userId)
}
