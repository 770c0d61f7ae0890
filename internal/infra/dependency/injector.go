// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/multibook/backend/config"
	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/application/usecase/auth"
	"github.com/multibook/backend/internal/application/usecase/business"
	"github.com/multibook/backend/internal/application/usecase/overview"
	"github.com/multibook/backend/internal/application/usecase/transaction"
	"github.com/multibook/backend/internal/domain/valueobject"
	"github.com/multibook/backend/internal/infra/metrics"
	"github.com/multibook/backend/internal/infra/server/router"
	"github.com/multibook/backend/internal/integration/adapters"
	"github.com/multibook/backend/internal/integration/cache"
	"github.com/multibook/backend/internal/integration/email"
	"github.com/multibook/backend/internal/integration/email/templates"
	"github.com/multibook/backend/internal/integration/entrypoint/controller"
	"github.com/multibook/backend/internal/integration/entrypoint/middleware"
	"github.com/multibook/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config          *config.Config
	DB              *gorm.DB
	Router          *router.Router
	Sessions        *session.Manager
	RateLimiter     *middleware.RateLimiter
	EmailWorker     *email.Worker
	EmailSender     adapter.EmailSender
	TokenRepository persistence.TokenRepository
	Metrics         *metrics.Metrics
}

// Option overrides a collaborator built by the injector.
type Option func(*options)

type options struct {
	redis         *redis.Client
	sender        adapter.EmailSender
	oauthProvider adapter.OAuthProvider
}

// WithRedis enables the ledger snapshot cache.
func WithRedis(client *redis.Client) Option {
	return func(o *options) {
		o.redis = client
	}
}

// WithEmailSender replaces the configured email sender.
func WithEmailSender(sender adapter.EmailSender) Option {
	return func(o *options) {
		o.sender = sender
	}
}

// WithOAuthProvider replaces the configured Google sign-in provider.
func WithOAuthProvider(provider adapter.OAuthProvider) Option {
	return func(o *options) {
		o.oauthProvider = provider
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts ...Option) (*Injector, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	currency, err := valueobject.ParseCurrency(cfg.Ledger.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_CURRENCY: %w", err)
	}

	// Repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	businessRepo := persistence.NewBusinessRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Ledger sessions
	var sessions *session.Manager
	collectors := metrics.New(func() int { return sessions.Len() })

	var snapshotCache adapter.LedgerSnapshotCache
	if o.redis != nil {
		snapshotCache = cache.NewLedgerSnapshotCache(o.redis, cfg.Redis.SnapshotTTL)
	}
	hydrator := session.NewHydrator(businessRepo, transactionRepo, snapshotCache, collectors)
	sessions = session.NewManager(hydrator, session.Config{
		IdleTimeout:      cfg.Ledger.SessionIdle,
		JanitorInterval:  cfg.Ledger.JanitorInterval,
		ResyncAfterWrite: cfg.Ledger.ResyncAfterWrite,
	}, session.WithObserver(collectors))

	// Adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, adapters.TokenDurations{
		Access:  cfg.JWT.AccessTokenExpiry,
		Refresh: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)
	confirmationTokens := adapters.NewConfirmationTokenService(cfg.Auth.ConfirmationTokenTTL, tokenRepo)

	oauthProvider := o.oauthProvider
	if oauthProvider == nil && cfg.OAuth.GoogleEnabled() {
		oauthProvider = adapters.NewGoogleOAuthProvider(adapters.GoogleOAuthConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		})
	}

	// Email
	sender := o.sender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		} else {
			slog.Warn("RESEND_API_KEY not set, emails are recorded instead of sent")
			sender = email.NewRecordingSender()
		}
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	emailService := email.NewService(emailQueueRepo)
	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval:    cfg.Email.PollInterval,
		BatchSize:       cfg.Email.BatchSize,
		SentRetention:   cfg.Email.SentRetention,
		CleanupInterval: cfg.Email.CleanupInterval,
	})

	// Auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, confirmationTokens, emailService, auth.RegisterConfig{
		RequireEmailConfirmation: cfg.Auth.RequireEmailConfirmation,
		ConfirmURL:               strings.TrimRight(cfg.Email.AppBaseURL, "/") + "/confirm-email",
		ConfirmationTTL:          cfg.Auth.ConfirmationTokenTTL,
	})
	confirmEmailUseCase := auth.NewConfirmEmailUseCase(userRepo, tokenService, confirmationTokens)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService, cfg.Auth.RequireEmailConfirmation)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService, sessions)
	googleLoginUseCase := auth.NewGoogleLoginUseCase(oauthProvider, userRepo, tokenService)

	// Business use cases
	createBusinessUseCase := business.NewCreateBusinessUseCase(sessions, businessRepo)
	updateBusinessUseCase := business.NewUpdateBusinessUseCase(sessions, businessRepo)
	deleteBusinessUseCase := business.NewDeleteBusinessUseCase(sessions, businessRepo)
	listBusinessesUseCase := business.NewListBusinessesUseCase(sessions)
	selectBusinessUseCase := business.NewSelectBusinessUseCase(sessions)

	// Transaction use cases
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(sessions, transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(sessions, transactionRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(sessions, transactionRepo)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(sessions)

	getOverviewUseCase := overview.NewGetOverviewUseCase(sessions, currency)

	// Controllers
	var cacheHealthChecker func() bool
	if o.redis != nil {
		client := o.redis
		cacheHealthChecker = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(ctx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, cacheHealthChecker)

	authController := controller.NewAuthController(
		registerUseCase,
		confirmEmailUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		googleLoginUseCase,
		cfg.Server.Environment == "production",
	)
	businessController := controller.NewBusinessController(
		createBusinessUseCase,
		updateBusinessUseCase,
		deleteBusinessUseCase,
		listBusinessesUseCase,
		selectBusinessUseCase,
	)
	transactionController := controller.NewTransactionController(
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		listTransactionsUseCase,
	)
	overviewController := controller.NewOverviewController(getOverviewUseCase)

	// Middleware
	authRateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	if !cfg.RateLimit.Enabled {
		authRateLimiter.Disable()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(router.Controllers{
		Health:      healthController,
		Auth:        authController,
		Business:    businessController,
		Transaction: transactionController,
		Overview:    overviewController,
	}, authRateLimiter, authMiddleware, router.Metrics{
		Middleware: collectors.Middleware(),
		Handler:    collectors.Handler(),
	})

	return &Injector{
		Config:          cfg,
		DB:              db,
		Router:          r,
		Sessions:        sessions,
		RateLimiter:     authRateLimiter,
		EmailWorker:     emailWorker,
		EmailSender:     sender,
		TokenRepository: tokenRepo,
		Metrics:         collectors,
	}, nil
}
