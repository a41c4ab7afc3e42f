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

// VenueFilter narrows a venue browse. Zero values are ignored.
type VenueFilter struct {
	City        string
	Category    string
	MinCapacity int
	Status      ListingStatus
	Page        int
	Limit       int
}

type VenueRepo interface {
	CreateVenue(ctx context.Context, venue *Venue) error
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*Venue, error)
	UpdateVenue(ctx context.Context, venue *Venue) error
	DeleteVenue(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) error
	BrowseVenues(ctx context.Context, filter VenueFilter) ([]Venue, int64, error)
	GetVenuesByOwner(ctx context.Context, ownerId uuid.UUID) ([]Venue, error)
	SetVenueStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error
	DistinctVenueCities(ctx context.Context) ([]string, error)
	DistinctVenueCategories(ctx context.Context) ([]string, error)
}

func (m *MongodbRepo) CreateVenue(ctx context.Context, venue *Venue) error {
	if venue == nil {
		return fmt.Errorf("venue is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return fmt.Errorf("failed to get venues collection: %w", err)
	}

	now := time.Now()
	venue.CreatedAt = now
	venue.UpdatedAt = now
	if venue.Status == "" {
		venue.Status = ListingPending
	}

	if _, err := collection.InsertOne(ctx, venue); err != nil {
		return fmt.Errorf("failed to insert venue: %w", err)
	}
	return nil
}

func (m *MongodbRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues collection: %w", err)
	}

	var venue Venue
	if err := collection.FindOne(ctx, bson.M{"id": id}).Decode(&venue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("venue not found")
		}
		return nil, fmt.Errorf("failed to fetch venue: %w", err)
	}
	return &venue, nil
}

func (m *MongodbRepo) GetVenueBySlug(ctx context.Context, slug string) (*Venue, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues collection: %w", err)
	}

	var venue Venue
	if err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&venue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("venue not found")
		}
		return nil, fmt.Errorf("failed to fetch venue: %w", err)
	}
	return &venue, nil
}

func (m *MongodbRepo) UpdateVenue(ctx context.Context, venue *Venue) error {
	if venue == nil {
		return fmt.Errorf("venue is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return fmt.Errorf("failed to get venues collection: %w", err)
	}

	venue.UpdatedAt = time.Now()
	res, err := collection.ReplaceOne(ctx, bson.M{"id": venue.Id, "owner_id": venue.OwnerId}, venue)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("venue not found or not owned by user")
	}
	return nil
}

func (m *MongodbRepo) DeleteVenue(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) error {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return fmt.Errorf("failed to get venues collection: %w", err)
	}

	res, err := collection.DeleteOne(ctx, bson.M{"id": id, "owner_id": ownerId})
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("venue not found or not owned by user")
	}
	return nil
}

// BrowseVenues returns a filtered, paginated page of venues plus the total
// match count. Public browsing passes Status=ListingApproved; the admin
// moderation queue passes ListingPending.
func (m *MongodbRepo) BrowseVenues(ctx context.Context, filter VenueFilter) ([]Venue, int64, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get venues collection: %w", err)
	}

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Category != "" {
		query["categories"] = filter.Category
	}
	if filter.MinCapacity > 0 {
		query["capacity"] = bson.M{"$gte": filter.MinCapacity}
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "is_featured", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to browse venues: %w", err)
	}
	defer cursor.Close(ctx)

	var venues []Venue
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, 0, fmt.Errorf("failed to decode venues: %w", err)
	}
	return venues, total, nil
}

func (m *MongodbRepo) GetVenuesByOwner(ctx context.Context, ownerId uuid.UUID) ([]Venue, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues collection: %w", err)
	}

	cursor, err := collection.Find(ctx, bson.M{"owner_id": ownerId},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owner venues: %w", err)
	}
	defer cursor.Close(ctx)

	var venues []Venue
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, fmt.Errorf("failed to decode venues: %w", err)
	}
	return venues, nil
}

// SetVenueStatus applies a moderation decision.
func (m *MongodbRepo) SetVenueStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return fmt.Errorf("failed to get venues collection: %w", err)
	}

	res, err := collection.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update venue status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("venue not found")
	}
	return nil
}

func (m *MongodbRepo) DistinctVenueCities(ctx context.Context) ([]string, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues collection: %w", err)
	}

	raw, err := collection.Distinct(ctx, "city", bson.M{"status": ListingApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cities: %w", err)
	}
	return toStrings(raw), nil
}

func (m *MongodbRepo) DistinctVenueCategories(ctx context.Context) ([]string, error) {
	collection, err := m.GetCollection(ctx, DBName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues collection: %w", err)
	}

	raw, err := collection.Distinct(ctx, "categories", bson.M{"status": ListingApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return toStrings(raw), nil
}

func toStrings(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
