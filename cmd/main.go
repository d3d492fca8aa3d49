package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/auth"
	"github.com/rohith4dev/Student-management/internal/config"
	"github.com/rohith4dev/Student-management/internal/db"
	"github.com/rohith4dev/Student-management/internal/logger"
	"github.com/rohith4dev/Student-management/internal/ratelimit"
	"github.com/rohith4dev/Student-management/internal/server"
	"github.com/rohith4dev/Student-management/internal/services"
	"github.com/rohith4dev/Student-management/internal/storage"
	"github.com/rohith4dev/Student-management/internal/store"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		zlog.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			zlog.Warn("mongodb disconnect failed", zap.Error(err))
		}
	}()
	zlog.Info("connected to mongodb", zap.String("database", cfg.DBName))

	if err := db.EnsureIndexes(ctx, database); err != nil {
		zlog.Fatal("index creation failed", zap.Error(err))
	}

	userStore := store.NewUserStore(database)
	studentStore := store.NewStudentStore(database)
	activityStore := store.NewActivityStore(database)

	recorder := audit.NewRecorder(activityStore, zlog)
	guard := auth.NewGuard(userStore)
	tokens := auth.TokenSettings{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.TokenTTL}

	var photos *storage.PhotoStore
	if cfg.MinioEndpoint != "" {
		photos, err = storage.NewPhotoStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			zlog.Warn("photo storage unavailable, continuing without it", zap.Error(err))
			photos = nil
		} else {
			zlog.Info("connected to minio", zap.String("bucket", cfg.MinioBucket))
		}
	}

	authService := services.NewAuthService(userStore, recorder, tokens, zlog)
	var studentService *services.StudentService
	if photos != nil {
		studentService = services.NewStudentService(studentStore, recorder, photos, zlog)
	} else {
		studentService = services.NewStudentService(studentStore, recorder, nil, zlog)
	}
	userService := services.NewUserService(userStore, recorder, zlog)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
		zlog.Fatal("admin bootstrap failed", zap.Error(err))
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewLimiter(ratelimit.NewRedisCounter(cfg.RedisAddr), cfg.RateLimitPerMin, zlog)
		zlog.Info("auth rate limiting enabled", zap.String("redis", cfg.RedisAddr), zap.Int("per_minute", cfg.RateLimitPerMin))
	}

	app := server.New(server.Deps{
		Guard:    guard,
		Tokens:   tokens,
		Auth:     authService,
		Students: studentService,
		Users:    userService,
		Activity: recorder,
		Limiter:  limiter,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zlog.Warn("server shutdown failed", zap.Error(err))
	}
}
