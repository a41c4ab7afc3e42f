package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// viewRetention is how long raw view records are kept before the TTL
// monitor removes them.
const viewRetention = 90 * 24 * time.Hour

// viewDedupWindow is the window within which repeat views from the same
// viewer are not recounted.
const viewDedupWindow = 30 * time.Minute

// ListingView is one recorded page view of a venue or service.
type ListingView struct {
	ListingId uuid.UUID     `bson:"listing_id" json:"listing_id"`
	Kind      FavouriteKind `bson:"kind" json:"kind"`
	OwnerId   uuid.UUID     `bson:"owner_id" json:"owner_id"`
	ViewerKey string        `bson:"viewer_key" json:"-"`
	ViewedAt  time.Time     `bson:"viewed_at" json:"viewed_at"`
	ExpiresAt time.Time     `bson:"expires_at" json:"-"`
}

// ListingViewStats aggregates views for one listing.
type ListingViewStats struct {
	ListingId  uuid.UUID `bson:"_id" json:"listing_id"`
	TotalViews int64     `bson:"total_views" json:"total_views"`
	LastViewed time.Time `bson:"last_viewed" json:"last_viewed"`
}

type ListingViewRepo interface {
	EnsureViewIndexes(ctx context.Context) error
	TrackView(ctx context.Context, view ListingView) error
	GetListingViews(ctx context.Context, listingId uuid.UUID) (*ListingViewStats, error)
	GetOwnerViewStats(ctx context.Context, ownerId uuid.UUID) ([]ListingViewStats, error)
}

// EnsureViewIndexes creates the TTL index that expires raw records and the
// compound index the dedup check relies on. Safe to call on every startup.
func (m *MongodbRepo) EnsureViewIndexes(ctx context.Context) error {
	collection, err := m.GetCollection(ctx, DBName, ListingViewsColName)
	if err != nil {
		return fmt.Errorf("failed to get listing views collection: %w", err)
	}

	_, err = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{
				{Key: "listing_id", Value: 1},
				{Key: "viewer_key", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing view indexes: %w", err)
	}
	return nil
}

// TrackView records a view unless the same viewer already viewed the
// listing inside the dedup window.
func (m *MongodbRepo) TrackView(ctx context.Context, view ListingView) error {
	collection, err := m.GetCollection(ctx, DBName, ListingViewsColName)
	if err != nil {
		return fmt.Errorf("failed to get listing views collection: %w", err)
	}

	now := time.Now()
	recent, err := collection.CountDocuments(ctx, bson.M{
		"listing_id": view.ListingId,
		"viewer_key": view.ViewerKey,
		"viewed_at":  bson.M{"$gte": now.Add(-viewDedupWindow)},
	})
	if err != nil {
		return fmt.Errorf("failed to check recent views: %w", err)
	}
	if recent > 0 {
		return nil
	}

	view.ViewedAt = now
	view.ExpiresAt = now.Add(viewRetention)
	if _, err := collection.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func (m *MongodbRepo) GetListingViews(ctx context.Context, listingId uuid.UUID) (*ListingViewStats, error) {
	collection, err := m.GetCollection(ctx, DBName, ListingViewsColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing views collection: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"listing_id": listingId}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$listing_id",
			"total_views": bson.M{"$sum": 1},
			"last_viewed": bson.M{"$max": "$viewed_at"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listing views: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []ListingViewStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode view stats: %w", err)
	}
	if len(stats) == 0 {
		return &ListingViewStats{ListingId: listingId}, nil
	}
	return &stats[0], nil
}

// GetOwnerViewStats returns per-listing view totals across everything the
// owner has listed, busiest listings first.
func (m *MongodbRepo) GetOwnerViewStats(ctx context.Context, ownerId uuid.UUID) ([]ListingViewStats, error) {
	collection, err := m.GetCollection(ctx, DBName, ListingViewsColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing views collection: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerId}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$listing_id",
			"total_views": bson.M{"$sum": 1},
			"last_viewed": bson.M{"$max": "$viewed_at"},
		}}},
		{{Key: "$sort", Value: bson.M{"total_views": -1}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate owner views: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []ListingViewStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode view stats: %w", err)
	}
	return stats, nil
}
