package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chargallery/cdn"
	"chargallery/controller"
	"chargallery/database"
	mw "chargallery/middlewares"
	"chargallery/route"
	"chargallery/validation"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	storage, err := cdn.NewS3Storage(ctx, cdn.StorageConfig{
		Bucket:   cfg.StorageBucket,
		Region:   cfg.StorageRegion,
		Endpoint: cfg.StorageEndpoint,
	}, log)
	if err != nil {
		return err
	}

	var (
		host       = cdn.NewHost(cfg.CDNBaseURL, cfg.StorageFolder)
		validator  = validation.New()
		characters = database.NewCharacterRepository(db)
		tags       = database.NewTagRepository(db)
		media      = database.NewMediaRepository(db)
		users      = database.NewUserRepository(db)
	)

	limiter := mw.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, 10*time.Minute)
	stopLimiter := make(chan struct{})
	defer close(stopLimiter)
	go limiter.Run(time.Minute, stopLimiter)

	router := route.New(route.Handlers{
		Characters: &controller.CharacterController{
			Characters: characters, Tags: tags, Host: host,
			Validator: validator, Log: log, Timeout: cfg.RequestTimeout,
		},
		Tags: &controller.TagController{
			Tags: tags, Characters: characters, Media: media, Host: host,
			Validator: validator, Log: log, Timeout: cfg.RequestTimeout,
		},
		Media: &controller.MediaController{
			Media: media, Characters: characters, Storage: storage, Host: host,
			Log: log, Timeout: cfg.RequestTimeout,
		},
		Users: &controller.UserController{
			Users: users, Validator: validator, Log: log,
			Secret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL, Secure: cfg.IsProduction(),
			Timeout: cfg.RequestTimeout,
		},
		Pages: &controller.PageController{
			Characters: characters, Tags: tags, Host: host,
			Log: log, Timeout: cfg.RequestTimeout,
		},
	}, route.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimiter:    limiter,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
