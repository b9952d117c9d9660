package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"ratpatrol/internal/adapter/api"
	"ratpatrol/internal/adapter/api/handler"
	apimiddleware "ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/adapter/api/router"
	"ratpatrol/internal/adapter/repository"
	"ratpatrol/internal/domain/service"
	"ratpatrol/internal/infrastructure/firebase"
	"ratpatrol/internal/infrastructure/kvstore"
	"ratpatrol/internal/infrastructure/ratelimit"
	"ratpatrol/internal/infrastructure/storage"
	"ratpatrol/internal/infrastructure/websocket"
	"ratpatrol/internal/usecase"
	"ratpatrol/pkg/config"
	"ratpatrol/pkg/logger"
)

const (
	kvCollection = "ratpatrol_kv"
	redisPrefix  = "ratpatrol:"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetDefault(appLogger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	googleOpts, err := firebase.ClientOptions(cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
	if err != nil {
		appLogger.Error("Invalid Google credentials", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(ctx, cfg, googleOpts)
	if err != nil {
		appLogger.Error("Failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	appLogger.Info("Store ready", "driver", cfg.StoreDriver)

	photos, closePhotos, err := openPhotoService(ctx, cfg, googleOpts)
	if err != nil {
		appLogger.Error("Failed to initialize photo storage", "backend", cfg.PhotoBackend, "error", err)
		os.Exit(1)
	}
	defer closePhotos()

	var verifier apimiddleware.TokenVerifier
	if cfg.FirebaseProject != "" {
		authClient, err := firebase.NewFirebaseAuthClient(ctx, cfg.FirebaseProject, googleOpts...)
		if err != nil {
			appLogger.Error("Failed to initialize Firebase Auth", "error", err)
			os.Exit(1)
		}
		verifier = authClient
	} else {
		appLogger.Warn("FIREBASE_PROJECT_ID not set, requests act as the default user")
	}

	reportRepo := repository.NewKVReportRepository(store, appLogger)
	voteRepo := repository.NewKVVoteRepository(store, appLogger)
	profileRepo := repository.NewKVProfileRepository(store, cfg.DefaultUserID, appLogger)

	wsManager := websocket.NewManager(appLogger)
	wsManager.Start(ctx)

	lock := usecase.NewStoreLock()
	reportUseCase := usecase.NewReportUseCase(reportRepo, profileRepo, photos, wsManager, lock, appLogger)
	reviewUseCase := usecase.NewReviewUseCase(reportRepo, voteRepo, profileRepo, wsManager, lock, appLogger)
	gamificationUseCase := usecase.NewGamificationUseCase(profileRepo, reportRepo, voteRepo, wsManager, lock, appLogger)

	handler.Setup(reportUseCase, reviewUseCase, gamificationUseCase, appLogger)
	handler.SetupHealthHandler(store, cfg.StoreDriver)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionSubmitReport: {Burst: cfg.SubmitRateLimit, Window: cfg.RateLimitWindow},
		ratelimit.ActionReviewReport: {Burst: cfg.ReviewRateLimit, Window: cfg.RateLimitWindow},
	})
	limiter.StartCleanupRoutine(10*time.Minute, ctx.Done())

	e := echo.New()
	e.HideBanner = true

	e.Use(requestLogger(appLogger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("15M"))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier, cfg.DefaultUserID, cfg.IsDevelopment(), appLogger)
	router.Setup(e, authMiddleware, limiter, handler.NewWebSocketHandler(wsManager))

	go func() {
		appLogger.Info("Starting server", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
	appLogger.Info("Server stopped")
}

// openStore connects the configured durable store. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, googleOpts []option.ClientOption) (kvstore.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case "memory":
		return kvstore.NewMemoryStore(), noop, nil

	case "sqlite":
		db, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		store, err := kvstore.NewSQLiteStore(db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return store, func() { db.Close() }, nil

	case "redis":
		client := kvstore.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return kvstore.NewRedisStore(client, redisPrefix), func() { client.Close() }, nil

	case "firestore":
		if cfg.FirebaseProject == "" {
			return nil, noop, errors.New("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, googleOpts...)
		if err != nil {
			return nil, noop, fmt.Errorf("create firestore client: %w", err)
		}
		return kvstore.NewFirestoreStore(client, kvCollection), func() { client.Close() }, nil

	case "mongo":
		client, err := kvstore.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Disconnect(disconnectCtx)
		}
		return kvstore.NewMongoStore(client.Database(cfg.MongoDB), kvCollection), closeFn, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openPhotoService returns nil when uploads are disabled; inline photos are
// then stored as submitted.
func openPhotoService(ctx context.Context, cfg *config.Config, googleOpts []option.ClientOption) (service.PhotoUploadService, func(), error) {
	noop := func() {}

	var files service.FileUploadService
	switch cfg.PhotoBackend {
	case "", "none":
		return nil, noop, nil
	case "gcs":
		client, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, googleOpts...)
		if err != nil {
			return nil, noop, err
		}
		files = client
	case "s3":
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:   cfg.StorageBucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, noop, err
		}
		files = client
	default:
		return nil, noop, fmt.Errorf("unknown photo backend %q", cfg.PhotoBackend)
	}

	return storage.NewPhotoService(files), func() { files.Close() }, nil
}

func requestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"remoteIP", v.RemoteIP,
			}
			if v.Error != nil {
				log.Warn("Request failed", append(kv, "error", v.Error)...)
				return nil
			}
			log.Info("Request", kv...)
			return nil
		},
	})
}
