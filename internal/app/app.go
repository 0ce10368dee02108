package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/config"
	"github.com/templui/hoaxify/internal/db"
	"github.com/templui/hoaxify/internal/middleware"
	"github.com/templui/hoaxify/internal/repository"
	"github.com/templui/hoaxify/internal/service"
	"github.com/templui/hoaxify/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	HoaxService    *service.HoaxService
	FileService    *service.FileService
	CleanupService *service.CleanupService
	RateLimiter    *middleware.RateLimiter
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)

	return Build(cfg, database, fileStorage, emailService), nil
}

// Build wires repositories and services over already opened dependencies.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage, mailer service.Mailer) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	hoaxRepository := repository.NewHoaxRepository(database)
	attachmentRepository := repository.NewAttachmentRepository(database)

	// Services
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepository, tokenRepository, hasher, cfg.TokenExpiry)
	fileService := service.NewFileService(attachmentRepository, fileStorage)
	hoaxService := service.NewHoaxService(database, hoaxRepository, attachmentRepository, userRepository, fileService)
	userService := service.NewUserService(database, userRepository, authService, hoaxService, fileService, mailer, hasher)
	cleanupService := service.NewCleanupService(
		authService,
		fileService,
		cfg.TokenSweepInterval,
		cfg.AttachmentSweepInterval,
		cfg.AttachmentRetention,
	)

	rateLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	rateLimiter.TrustProxies(cfg.TrustedProxies...)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		HoaxService:    hoaxService,
		FileService:    fileService,
		CleanupService: cleanupService,
		RateLimiter:    rateLimiter,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
