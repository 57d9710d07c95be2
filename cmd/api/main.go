package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coupon-service/internal/auth"
	"coupon-service/internal/cache"
	"coupon-service/internal/config"
	"coupon-service/internal/database"
	"coupon-service/internal/handler"
	"coupon-service/internal/importer"
	"coupon-service/internal/payload"
	"coupon-service/internal/repository"
	"coupon-service/internal/router"
	"coupon-service/internal/service"
	"coupon-service/internal/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting coupon-service API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	couponRepo := repository.NewCouponRepository(pool, logger)
	questionRepo := repository.NewQuestionRepository(pool, logger)
	ratingRepo := repository.NewRatingRepository(pool, logger)

	artifacts := cache.NewNoopCache()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer client.Close()
		artifacts = cache.NewRedisCache(client, cfg.Redis.CacheTTL(), logger)
	} else {
		logger.Info().Msg("qr artifact cache disabled")
	}

	var (
		s3Client  *s3.Client
		publisher storage.Publisher
	)
	if cfg.S3.Enabled {
		s3Client, err = storage.NewS3Client(ctx, cfg.S3, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		publisher = storage.NewS3Publisher(s3Client, cfg.S3.Bucket, cfg.S3.PresignTTL(), logger)
	} else {
		logger.Info().Msg("S3 disabled, qr codes are served inline and imports read local files")
	}

	sealer, err := payload.NewSealer(cfg.QRCode.Secret)
	if err != nil {
		return fmt.Errorf("failed to initialize qr sealer: %w", err)
	}
	renderOpts := payload.DefaultRenderOptions()
	renderOpts.Size = cfg.QRCode.Size
	codec := payload.NewCodec(sealer, payload.NewQRRenderer(renderOpts), cfg.QRCode.Encrypt, logger)

	couponService := service.NewCouponService(couponRepo, artifacts, logger)
	questionService := service.NewQuestionService(questionRepo, couponRepo, logger)
	ratingService := service.NewRatingService(ratingRepo, questionRepo, logger)
	statsService := service.NewStatsService(ratingRepo, couponRepo, logger)
	qrService := service.NewQRCodeService(couponService, codec, artifacts, publisher, cfg.S3.Prefix, logger)

	if len(cfg.Import.Files) > 0 {
		var s3Loader importer.Loader
		if s3Client != nil {
			s3Loader = importer.NewS3Loader(s3Client, cfg.S3.Bucket, logger)
		}
		loader := importer.NewFallbackLoader(s3Loader, importer.NewFileLoader(logger), cfg.S3.Prefix, logger)

		if _, err := importer.New(loader, couponService, logger).Run(ctx, cfg.Import.Files); err != nil {
			return fmt.Errorf("failed to import coupons: %w", err)
		}
	}

	tokens := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	mux := router.New(router.Handlers{
		Coupons:   handler.NewCouponHandler(couponService, logger),
		Questions: handler.NewQuestionHandler(questionService, ratingService, logger),
		QRCodes:   handler.NewQRCodeHandler(qrService, logger),
		Stats:     handler.NewStatsHandler(statsService, logger),
	}, tokens, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
