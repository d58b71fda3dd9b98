package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/refurbgear/storefront-backend/controllers"
	"github.com/refurbgear/storefront-backend/database"
	"github.com/refurbgear/storefront-backend/kafka"
	"github.com/refurbgear/storefront-backend/middleware"
	"github.com/refurbgear/storefront-backend/pkg/logger"
	"github.com/refurbgear/storefront-backend/repository"
	"github.com/refurbgear/storefront-backend/routes"
	"github.com/refurbgear/storefront-backend/services"

	"golang.org/x/time/rate"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		// Logger isn't up yet.
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			zap.L().Error("Failed to close MongoDB", zap.Error(err))
		}
	}()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(database.DB)
	categoryRepo := repository.NewCategoryRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	quoteRepo := repository.NewQuoteRepository(database.DB)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer indexCancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		zap.L().Warn("Failed to ensure user indexes", zap.Error(err))
	}
	if err := categoryRepo.EnsureIndexes(indexCtx); err != nil {
		zap.L().Warn("Failed to ensure category indexes", zap.Error(err))
	}

	// --- Optional infrastructure ---
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, catalog cache disabled", zap.Error(err))
		} else {
			redisClient = redis.NewClient(redisOpts)
		}
	}

	var quoteEvents services.QuoteEventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		quoteEvents = producer
		defer producer.Close()
	}

	var uploadController *controllers.UploadController

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokenService)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo, productRepo)
	productService := services.NewProductService(productRepo, categoryRepo)
	configurationService := services.NewConfigurationService(productRepo, quoteRepo, quoteEvents)

	// --- Controllers ---
	var cache *controllers.CacheManager
	if redisClient != nil {
		cache = controllers.NewCacheManager(redisClient)
	}
	authController := controllers.NewAuthController(authService, cfg.ExposeResetToken)
	userController := controllers.NewUserController(userService)
	categoryController := controllers.NewCategoryController(categoryService)
	productController := controllers.NewProductController(productService, cache)
	configurationController := controllers.NewConfigurationController(configurationService)

	if cfg.S3Bucket != "" {
		cfgOpts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.AWSRegion)}
		// Explicit keys take precedence over the default chain so a local
		// MinIO/LocalStack endpoint works without a shared credentials file.
		if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
			cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, "")))
		}
		awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
		if err != nil {
			zap.L().Warn("Failed to load AWS config, image uploads disabled", zap.Error(err))
		} else {
			s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
				o.UsePathStyle = true
				if cfg.AWSEndpoint != "" {
					o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
				}
			})
			uploadService := services.NewUploadService(s3.NewPresignClient(s3Client), cfg.S3Bucket, cfg.S3Prefix)
			uploadController = controllers.NewUploadController(uploadService, productService)
		}
	}

	// --- HTTP server ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	routes.Register(r, routes.Deps{
		Auth:           authController,
		Users:          userController,
		Products:       productController,
		Categories:     categoryController,
		Configurations: configurationController,
		Uploads:        uploadController,
		RequireAuth:    middleware.RequireAuth(tokenService, userRepo),
		RateLimit:      middleware.RateLimit(rate.Every(time.Minute/20), 10),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Storefront API starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Storefront API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	zap.L().Info("Storefront API stopped gracefully")
}
