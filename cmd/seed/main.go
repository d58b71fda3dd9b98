// Command seed bootstraps the first administrator account and ensures the
// unique indexes exist. It is idempotent: an existing account with the same
// email is left untouched.
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/refurbgear/storefront-backend/database"
	"github.com/refurbgear/storefront-backend/models"
	"github.com/refurbgear/storefront-backend/pkg/logger"
	"github.com/refurbgear/storefront-backend/repository"
)

func main() {
	_ = godotenv.Load()
	logger.Initialize(os.Getenv("APP_ENV"))
	defer zap.L().Sync()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		zap.L().Fatal("MONGO_URI is required")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "refurbgear"
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		zap.L().Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	if err := database.Connect(mongoURI, dbName); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := repository.NewUserRepository(database.DB)
	categories := repository.NewCategoryRepository(database.DB)

	if err := users.EnsureIndexes(ctx); err != nil {
		zap.L().Fatal("Failed to ensure user indexes", zap.Error(err))
	}
	if err := categories.EnsureIndexes(ctx); err != nil {
		zap.L().Fatal("Failed to ensure category indexes", zap.Error(err))
	}

	if existing, err := users.FindByEmail(ctx, email); err == nil {
		zap.L().Info("Administrator already exists, nothing to do",
			zap.String("email", existing.Email), zap.String("role", existing.Role))
		return
	} else if err != mongo.ErrNoDocuments {
		zap.L().Fatal("Failed to look up administrator", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Fatal("Failed to hash password", zap.Error(err))
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleAdministrator,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, admin); err != nil {
		zap.L().Fatal("Failed to create administrator", zap.Error(err))
	}
	zap.L().Info("Administrator created", zap.String("email", admin.Email), zap.String("id", admin.ID.String()))
}
