package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/config"
	"github.com/refbonus/refbonus-api/internal/domain/auth"
	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/reconcile"
	"github.com/refbonus/refbonus-api/internal/domain/referral"
	"github.com/refbonus/refbonus-api/internal/domain/settings"
	"github.com/refbonus/refbonus-api/internal/domain/statement"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/jwt"
	"github.com/refbonus/refbonus-api/internal/pkg/logger"
	pkgresponse "github.com/refbonus/refbonus-api/internal/pkg/response"
	"github.com/refbonus/refbonus-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting RefBonus API")

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	redis, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	store, err := storage.New(ctx, storage.Config{
		Driver:      cfg.StorageDriver,
		LocalPath:   cfg.StorageLocalPath,
		BaseURL:     cfg.StorageBaseURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init statement storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	tx := database.NewTransactor(db)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	referralRepo := referral.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	reconcileRepo := reconcile.NewRepository(db)

	// ---------- Services ----------
	settingsService := settings.NewService(settingsRepo, settings.NewRedisCache(redis, cfg.SettingsCacheTTL), cfg.DefaultRewardPerReferral)
	ledgerService := ledger.NewService(userRepo, ledgerRepo, tx)
	referralService := referral.NewService(referralRepo, userRepo, ledgerService, tx)
	authService := auth.NewService(userRepo, referralService, settingsService, tx, jwtService)
	authService.SetDefaultReferralLimit(cfg.DefaultReferralLimit)
	userService := user.NewService(userRepo, tx, authService)
	statementService := statement.NewService(userRepo, ledgerService, store)
	reconcileService := reconcile.NewService(reconcileRepo)

	if cfg.AdminPhone != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminPhone, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap admin")
		}
	}

	scheduler, err := reconcile.NewScheduler(reconcileService, cfg.ReconcileSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule reconciliation")
	}
	scheduler.Start()

	var files http.Handler
	if local, ok := store.(*storage.LocalStorage); ok {
		files = http.FileServer(http.Dir(local.BasePath()))
	}

	r := newRouter(routerDeps{
		jwt:            jwtService,
		allowedOrigins: cfg.AllowedOrigins,
		files:          files,
		auth:           auth.NewHandler(authService),
		users:          user.NewHandler(userService),
		settings:       settings.NewHandler(settingsService),
		referrals:      referral.NewHandler(referralService),
		ledger:         ledger.NewHandler(ledgerService),
		statements:     statement.NewHandler(statementService),
		reconcile:      reconcile.NewHandler(reconcileService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

type routerDeps struct {
	jwt            *jwt.Service
	allowedOrigins []string
	files          http.Handler // nil unless statements are stored locally

	auth       *auth.Handler
	users      *user.Handler
	settings   *settings.Handler
	referrals  *referral.Handler
	ledger     *ledger.Handler
	statements *statement.Handler
	reconcile  *reconcile.Handler
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(d.allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{"status": "ok"})
	})

	authMiddleware := middleware.Auth(d.jwt)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", d.auth.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Mount("/settings", d.settings.Routes())
			r.Mount("/referrals", d.referrals.Routes())
			r.Mount("/balance", d.ledger.Routes())
			r.Mount("/statements", d.statements.Routes())
			if d.files != nil {
				r.Get("/files/statements/{userID}/*", d.statements.Files(d.files))
			}

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Mount("/users", d.users.AdminRoutes())
				r.Mount("/balance", d.ledger.AdminRoutes())
				r.Mount("/transactions", d.ledger.AdminTransactionRoutes())
				r.Mount("/referrals", d.referrals.AdminRoutes())
				r.Mount("/settings", d.settings.AdminRoutes())
				r.Mount("/statements", d.statements.AdminRoutes())
				r.Mount("/reconcile", d.reconcile.AdminRoutes())
			})
		})
	})

	return r
}
