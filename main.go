package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"zawamu/analytics"
	"zawamu/auth"
	"zawamu/cache"
	"zawamu/config"
	"zawamu/currency"
	"zawamu/database"
	"zawamu/handlers"
	"zawamu/middleware"
	"zawamu/observability"
	"zawamu/routes"
	"zawamu/store"
	"zawamu/upload"
	"zawamu/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Str("env", cfg.AppEnv).Msg("starting Zawamu Properties API")

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectWithRetry(ctx, cfg.MongoURI, cfg.MongoDatabase, 3, 2*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := db.CreateIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}

	properties := store.NewPropertyStore(db.Properties())
	blogs := store.NewBlogStore(db.Blogs())
	contacts := store.NewContactStore(db.Contacts())
	viewings := store.NewViewingStore(db.ViewingRequests())
	users := store.NewUserStore(db.Users())

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(users, tokens)

	var rates currency.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, rates will not be cached")
		} else {
			rates = rc
			defer rc.Close()
		}
		cancel()
	}
	currencySvc := currency.NewService(currency.NewClient(cfg.RatesURL, 2), rates, cfg.RatesTTL)

	var uploader upload.Uploader = upload.Unconfigured{}
	if cfg.CloudinaryConfigured() {
		cld, err := upload.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.UploadFolder)
		if err != nil {
			log.Error().Err(err).Msg("cloudinary setup failed, uploads disabled")
		} else {
			uploader = cld
		}
	}

	hub := websocket.NewManager()
	go hub.Run(ctx)

	limiter := middleware.NewLimiterStore(cfg.LoginRateLimit, cfg.LoginRateLimit, 5*time.Minute)
	defer limiter.Stop()

	router := routes.SetupRouter(cfg, routes.Deps{
		Properties:   handlers.NewPropertyHandler(properties, hub),
		Blog:         handlers.NewBlogHandler(blogs, hub),
		Contact:      handlers.NewContactHandler(contacts, hub),
		Viewings:     handlers.NewViewingHandler(viewings, properties, hub),
		Auth:         handlers.NewAuthHandler(authSvc),
		Admin:        handlers.NewAdminHandler(analytics.NewService(properties, blogs, contacts)),
		Upload:       handlers.NewUploadHandler(uploader),
		Currency:     handlers.NewCurrencyHandler(currencySvc),
		Tokens:       tokens,
		LoginLimiter: limiter,
		Live:         websocket.Handler(hub, tokens),
		Registry:     observability.InitRegistry(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
