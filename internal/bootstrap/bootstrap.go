package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/veloclub/veloclub/internal/app/auth"
	appControllers "github.com/veloclub/veloclub/internal/app/controllers"
	appMigrations "github.com/veloclub/veloclub/internal/app/migrations"
	appRepos "github.com/veloclub/veloclub/internal/app/repositories"
	appRoutes "github.com/veloclub/veloclub/internal/app/routes"
	appServices "github.com/veloclub/veloclub/internal/app/services"
	"github.com/veloclub/veloclub/internal/config"
	"github.com/veloclub/veloclub/internal/db"
	appMiddleware "github.com/veloclub/veloclub/internal/middleware"
	pkgAuth "github.com/veloclub/veloclub/internal/pkg/auth"
	"github.com/veloclub/veloclub/internal/pkg/events"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
	"github.com/veloclub/veloclub/internal/pkg/identity"
	"github.com/veloclub/veloclub/internal/pkg/logger"
	"github.com/veloclub/veloclub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	GuestSessionService *appServices.GuestSessionService
	CommunityService    appServices.CommunityService
	MembershipService   appServices.MembershipService
	EventService        appServices.EventService
	LeaderboardService  appServices.LeaderboardService
	TrackService        appServices.TrackService
	RideService         appServices.RideService

	AuthController      *appControllers.AuthController
	CommunityController *appControllers.CommunityController
	EventController     *appControllers.EventController
	TrackController     *appControllers.TrackController
	RideController      *appControllers.RideController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Logger         zerolog.Logger
	Producer       *events.Producer
	RedisClient    *redis.Client
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failure should not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis creates the Redis client when guest sessions are enabled.
// Returns nil when Redis is disabled in the configuration.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, guest sessions unavailable")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, RedisClient: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool, redisClient, cfg.GuestSessionTTL())

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	verifier := identity.NewFirebaseVerifier(identity.FirebaseConfig{
		CredentialsJSON: cfg.Firebase.CredentialsJSON,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})

	deps.Producer = events.NewProducer(events.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	}, lgr)
	if deps.Producer == nil {
		lgr.Info().Msg("Kafka brokers not configured, audit events disabled")
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		verifier,
		lgr,
	)
	deps.GuestSessionService = appServices.NewGuestSessionService(deps.Repos.GuestSessionRepository, lgr)

	deps.CommunityService = appServices.NewCommunityService(
		deps.Repos.CommunityRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.MembershipService = appServices.NewMembershipService(
		deps.Repos.MembershipRepository,
		deps.Repos.CommunityRepository,
		deps.AuthzService,
		deps.Producer,
		lgr,
	)
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.ParticipationRepository,
		deps.Producer,
		lgr,
	)
	deps.LeaderboardService = appServices.NewLeaderboardService(
		deps.Repos.ParticipationRepository,
		deps.Repos.EventRepository,
		deps.Repos.TrackRepository,
		lgr,
	)
	deps.TrackService = appServices.NewTrackService(deps.Repos.TrackRepository, lgr)
	deps.RideService = appServices.NewRideService(deps.Repos.RideRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.GuestSessionService)
	deps.CommunityController = appControllers.NewCommunityController(deps.CommunityService, deps.MembershipService)
	deps.EventController = appControllers.NewEventController(deps.EventService, deps.LeaderboardService)
	deps.TrackController = appControllers.NewTrackController(deps.TrackService, deps.LeaderboardService)
	deps.RideController = appControllers.NewRideController(deps.RideService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CommunityController,
		deps.EventController,
		deps.TrackController,
		deps.RideController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// Shutdown releases infrastructure resources held by the dependencies.
func (d *Dependencies) Shutdown() {
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close event producer")
		}
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close redis client")
		}
	}
}
