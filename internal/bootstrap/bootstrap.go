package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/thankiuday/dreamlink/docs" // Import generated swagger docs
	appControllers "github.com/thankiuday/dreamlink/internal/app/controllers"
	appMigrations "github.com/thankiuday/dreamlink/internal/app/migrations"
	appRepos "github.com/thankiuday/dreamlink/internal/app/repositories"
	appRoutes "github.com/thankiuday/dreamlink/internal/app/routes"
	appServices "github.com/thankiuday/dreamlink/internal/app/services"
	"github.com/thankiuday/dreamlink/internal/config"
	"github.com/thankiuday/dreamlink/internal/db"
	appMiddleware "github.com/thankiuday/dreamlink/internal/middleware"
	pkgAuth "github.com/thankiuday/dreamlink/internal/pkg/auth"
	"github.com/thankiuday/dreamlink/internal/pkg/chatgateway"
	"github.com/thankiuday/dreamlink/internal/pkg/filestorage"
	"github.com/thankiuday/dreamlink/internal/pkg/helpers"
	"github.com/thankiuday/dreamlink/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	RoomService           appServices.RoomService
	DeliveryService       appServices.DeliveryService
	MessageService        appServices.MessageService
	FriendService         appServices.FriendService
	PartnerService        appServices.PartnerService
	AuthController        *appControllers.AuthController
	RoomController        *appControllers.RoomController
	MessageController     *appControllers.MessageController
	FriendController      *appControllers.FriendController
	SupervisionController *appControllers.SupervisionController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Gateway               chatgateway.Gateway
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
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

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves uploads from the same process under /uploads
	var err error
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Gateway = chatgateway.NewHTTPClient(chatgateway.HTTPClientOptions{
		BaseURL:    cfg.Gateway.BaseURL,
		APIKey:     cfg.Gateway.APIKey,
		Timeout:    helpers.ParseDuration(cfg.Gateway.RequestTimeout, 10*time.Second),
		ProbeRate:  cfg.Gateway.ProbeRate,
		ProbeBurst: cfg.Gateway.ProbeBurst,
		Logger:     lgr,
	})

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.RoomService = appServices.NewRoomService(
		deps.Repos.RoomRepository,
		deps.Repos.RoomMemberRepository,
		lgr,
	)
	deps.DeliveryService = appServices.NewDeliveryService(
		deps.Repos.RoomRepository,
		deps.Repos.RoomMemberRepository,
		deps.Repos.MessageRepository,
		deps.Repos.UserRepository,
		deps.Gateway,
		deps.FileStorage,
		cfg.Server.BaseURL,
		lgr,
	)
	deps.MessageService = appServices.NewMessageService(
		deps.Repos.MessageRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.FriendService = appServices.NewFriendService(
		deps.Repos.FriendshipRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.PartnerService = appServices.NewPartnerService(
		deps.Repos.UserRepository,
		deps.Repos.FriendshipRepository,
		deps.Repos.RoomMemberRepository,
		deps.Repos.MessageRepository,
		deps.Gateway,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.RoomController = appControllers.NewRoomController(deps.RoomService)
	deps.MessageController = appControllers.NewMessageController(deps.DeliveryService, deps.MessageService)
	deps.FriendController = appControllers.NewFriendController(deps.FriendService)
	deps.SupervisionController = appControllers.NewSupervisionController(deps.PartnerService)

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
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RoomController,
		deps.MessageController,
		deps.FriendController,
		deps.SupervisionController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
