package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteContact identifies the customer submitting a configuration.
type QuoteContact struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Company string `json:"company,omitempty" bson:"company,omitempty"`
}

// Quote is a submitted configuration: the customer's option selections plus
// the derived price and build time at submission.
type Quote struct {
	ID                    uuid.UUID         `json:"id" bson:"_id"`
	ProductID             uuid.UUID         `json:"product_id" bson:"product_id"`
	Selections            map[string]string `json:"selections" bson:"selections"`
	WarrantyUpgradeID     string            `json:"warranty_upgrade_id,omitempty" bson:"warranty_upgrade_id,omitempty"`
	SupportUpgradeID      string            `json:"support_upgrade_id,omitempty" bson:"support_upgrade_id,omitempty"`
	Currency              string            `json:"currency" bson:"currency"`
	TotalPrice            float64           `json:"total_price" bson:"total_price"`
	BuildTimeHours        int               `json:"build_time_hours" bson:"build_time_hours"`
	EstimatedDeliveryDays int               `json:"estimated_delivery_days" bson:"estimated_delivery_days"`
	Contact               QuoteContact      `json:"contact" bson:"contact"`
	CreatedAt             time.Time         `json:"created_at" bson:"created_at"`
}
