package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/refurbgear/storefront-backend/models"
)

type QuoteRepository struct {
	collection *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{
		collection: db.Collection("quotes"),
	}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	_, err := r.collection.InsertOne(ctx, quote)
	return err
}

func (r *QuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
