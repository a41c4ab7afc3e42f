package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/envents/envents-server/internal/cache"
	"github.com/envents/envents-server/internal/config"
	"github.com/envents/envents-server/internal/helpers"
	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/notify"
	"github.com/envents/envents-server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	MongoRepo      *models.MongodbRepo

	UserService      *services.UserService
	VenueService     *services.VenueService
	ListingService   *services.ListingService
	BookingService   *services.BookingService
	FavouriteService *services.FavouriteService
	AnalyticsService *services.AnalyticsService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongoRepo := models.MongodbNewRepo(mongoDBClient)

	catalog := cache.New(cfg.CatalogCacheTTL)
	uploader := helpers.NewUploader(cld)
	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)

	userService := services.NewUserService(supa)
	venueService := services.NewVenueService(mongoRepo, catalog, uploader, logger)
	listingService := services.NewListingService(mongoRepo, catalog, uploader, logger)
	bookingService := services.NewBookingService(mongoRepo, mongoRepo, mongoRepo, mailer, logger)
	favouriteService := services.NewFavouriteService(mongoRepo, mongoRepo, mongoRepo)
	analyticsService := services.NewAnalyticsService(mongoRepo, logger)

	return &Container{
		Logger:           logger,
		SupabaseClient:   supabaseClient,
		MongoDBClient:    mongoDBClient,
		MongoRepo:        mongoRepo,
		UserService:      userService,
		VenueService:     venueService,
		ListingService:   listingService,
		BookingService:   bookingService,
		FavouriteService: favouriteService,
		AnalyticsService: analyticsService,
	}
}
