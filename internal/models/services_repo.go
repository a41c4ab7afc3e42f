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

// ServiceFilter narrows a service browse. Zero values are ignored.
type ServiceFilter struct {
	City     string
	Category string
	Status   ListingStatus
	Page     int
	Limit    int
}

type ServiceRepo interface {
	CreateService(ctx context.Context, service *Service) error
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*Service, error)
	UpdateService(ctx context.Context, service *Service) error
	DeleteService(ctx context.Context, id uuid.UUID, providerId uuid.UUID) error
	BrowseServices(ctx context.Context, filter ServiceFilter) ([]Service, int64, error)
	GetServicesByProvider(ctx context.Context, providerId uuid.UUID) ([]Service, error)
	SetServiceStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error
	DistinctServiceCategories(ctx context.Context) ([]string, error)
}

func (m *MongodbRepo) CreateService(ctx context.Context, service *Service) error {
	if service == nil {
		return fmt.Errorf("service is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return fmt.Errorf("failed to get services collection: %w", err)
	}

	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now
	if service.Status == "" {
		service.Status = ListingPending
	}

	if _, err := collection.InsertOne(ctx, service); err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}

func (m *MongodbRepo) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get services collection: %w", err)
	}

	var service Service
	if err := collection.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service not found")
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return &service, nil
}

func (m *MongodbRepo) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get services collection: %w", err)
	}

	var service Service
	if err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&service); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service not found")
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return &service, nil
}

func (m *MongodbRepo) UpdateService(ctx context.Context, service *Service) error {
	if service == nil {
		return fmt.Errorf("service is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return fmt.Errorf("failed to get services collection: %w", err)
	}

	service.UpdatedAt = time.Now()
	res, err := collection.ReplaceOne(ctx, bson.M{"id": service.Id, "provider_id": service.ProviderId}, service)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("service not found or not owned by user")
	}
	return nil
}

func (m *MongodbRepo) DeleteService(ctx context.Context, id uuid.UUID, providerId uuid.UUID) error {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return fmt.Errorf("failed to get services collection: %w", err)
	}

	res, err := collection.DeleteOne(ctx, bson.M{"id": id, "provider_id": providerId})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("service not found or not owned by user")
	}
	return nil
}

func (m *MongodbRepo) BrowseServices(ctx context.Context, filter ServiceFilter) ([]Service, int64, error) {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get services collection: %w", err)
	}

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
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
		return nil, 0, fmt.Errorf("failed to browse services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, total, nil
}

func (m *MongodbRepo) GetServicesByProvider(ctx context.Context, providerId uuid.UUID) ([]Service, error) {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get services collection: %w", err)
	}

	cursor, err := collection.Find(ctx, bson.M{"provider_id": providerId},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (m *MongodbRepo) SetServiceStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return fmt.Errorf("failed to get services collection: %w", err)
	}

	res, err := collection.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update service status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func (m *MongodbRepo) DistinctServiceCategories(ctx context.Context) ([]string, error) {
	collection, err := m.GetCollection(ctx, DBName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get services collection: %w", err)
	}

	raw, err := collection.Distinct(ctx, "category", bson.M{"status": ListingApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service categories: %w", err)
	}
	return toStrings(raw), nil
}
