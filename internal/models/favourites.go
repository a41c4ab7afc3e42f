package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FavouriteKind says what a saved item points at.
type FavouriteKind string

const (
	FavouriteVenue   FavouriteKind = "venue"
	FavouriteService FavouriteKind = "service"
)

func ParseFavouriteKind(raw string) (FavouriteKind, error) {
	switch FavouriteKind(raw) {
	case FavouriteVenue, FavouriteService:
		return FavouriteKind(raw), nil
	}
	return "", fmt.Errorf("unknown favourite kind: %q", raw)
}

// FavouriteItem is one saved listing with enough denormalized detail to
// render a favourites page without extra lookups.
type FavouriteItem struct {
	ListingId uuid.UUID     `bson:"listing_id" json:"listing_id"`
	Kind      FavouriteKind `bson:"kind" json:"kind"`
	Name      string        `bson:"name" json:"name"`
	Image     string        `bson:"image,omitempty" json:"image,omitempty"`
	City      string        `bson:"city,omitempty" json:"city,omitempty"`
	AddedAt   time.Time     `bson:"added_at" json:"added_at"`
}

// Favourite is one document per user; items are keyed by listing id so a
// listing can only be saved once.
type Favourite struct {
	UserId    uuid.UUID                `bson:"user_id" json:"user_id"`
	Items     map[string]FavouriteItem `bson:"items" json:"items"`
	UpdatedAt time.Time                `bson:"updated_at" json:"updated_at"`
}

type FavouriteRepo interface {
	AddFavourite(ctx context.Context, userId uuid.UUID, item FavouriteItem) (*Favourite, error)
	RemoveFavourite(ctx context.Context, userId uuid.UUID, listingId uuid.UUID) (*Favourite, error)
	GetFavourites(ctx context.Context, userId uuid.UUID) (*Favourite, error)
}

// AddFavourite upserts the user's favourites document and sets the item
// under its listing-id key in one round trip.
func (m *MongodbRepo) AddFavourite(ctx context.Context, userId uuid.UUID, item FavouriteItem) (*Favourite, error) {
	collection, err := m.GetCollection(ctx, DBName, FavouriteColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get favourites collection: %w", err)
	}

	item.AddedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("items.%s", item.ListingId): item,
			"updated_at":                            time.Now(),
		},
		"$setOnInsert": bson.M{"user_id": userId},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var fav Favourite
	if err := collection.FindOneAndUpdate(ctx, bson.M{"user_id": userId}, update, opts).Decode(&fav); err != nil {
		return nil, fmt.Errorf("failed to add favourite: %w", err)
	}
	return &fav, nil
}

func (m *MongodbRepo) RemoveFavourite(ctx context.Context, userId uuid.UUID, listingId uuid.UUID) (*Favourite, error) {
	collection, err := m.GetCollection(ctx, DBName, FavouriteColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get favourites collection: %w", err)
	}

	update := bson.M{
		"$unset": bson.M{fmt.Sprintf("items.%s", listingId): ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var fav Favourite
	err = collection.FindOneAndUpdate(ctx, bson.M{"user_id": userId}, update, opts).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no favourites for user")
		}
		return nil, fmt.Errorf("failed to remove favourite: %w", err)
	}
	return &fav, nil
}

func (m *MongodbRepo) GetFavourites(ctx context.Context, userId uuid.UUID) (*Favourite, error) {
	collection, err := m.GetCollection(ctx, DBName, FavouriteColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get favourites collection: %w", err)
	}

	var fav Favourite
	err = collection.FindOne(ctx, bson.M{"user_id": userId}).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// An empty favourites set is not an error.
			return &Favourite{UserId: userId, Items: map[string]FavouriteItem{}}, nil
		}
		return nil, fmt.Errorf("failed to fetch favourites: %w", err)
	}
	if fav.Items == nil {
		fav.Items = map[string]FavouriteItem{}
	}
	return &fav, nil
}
