package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/refurbgear/storefront-backend/models"
)

// QuoteSubmittedEvent is the payload published when a configuration is
// accepted.
type QuoteSubmittedEvent struct {
	QuoteID               string    `json:"quote_id"`
	ProductID             string    `json:"product_id"`
	Currency              string    `json:"currency"`
	TotalPrice            float64   `json:"total_price"`
	BuildTimeHours        int       `json:"build_time_hours"`
	EstimatedDeliveryDays int       `json:"estimated_delivery_days"`
	ContactEmail          string    `json:"contact_email"`
	SubmittedAt           time.Time `json:"submitted_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishQuoteSubmitted announces an accepted quote, keyed by quote id.
func (p *Producer) PublishQuoteSubmitted(ctx context.Context, quote *models.Quote) error {
	event := QuoteSubmittedEvent{
		QuoteID:               quote.ID.String(),
		ProductID:             quote.ProductID.String(),
		Currency:              quote.Currency,
		TotalPrice:            quote.TotalPrice,
		BuildTimeHours:        quote.BuildTimeHours,
		EstimatedDeliveryDays: quote.EstimatedDeliveryDays,
		ContactEmail:          quote.Contact.Email,
		SubmittedAt:           quote.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.QuoteID),
		Value: data,
	})
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
