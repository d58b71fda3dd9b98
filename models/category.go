package models

import (
	"time"

	"github.com/google/uuid"
)

// SpecField describes one specification attribute products in a category carry.
type SpecField struct {
	Key      string `json:"key" bson:"key"`
	Label    string `json:"label" bson:"label"`
	Type     string `json:"type" bson:"type"`
	Unit     string `json:"unit,omitempty" bson:"unit,omitempty"`
	Required bool   `json:"required" bson:"required"`
}

// FilterDefinition describes a storefront-side filter for a category listing.
type FilterDefinition struct {
	Key    string   `json:"key" bson:"key"`
	Label  string   `json:"label" bson:"label"`
	Type   string   `json:"type" bson:"type"`
	Values []string `json:"values,omitempty" bson:"values,omitempty"`
}

// Category is a node in the catalog hierarchy. Path holds the ancestor slug
// chain including the category's own slug; Level is the depth, 0 for roots.
type Category struct {
	ID         uuid.UUID              `json:"id" bson:"_id"`
	Name       string                 `json:"name" bson:"name"`
	Slug       string                 `json:"slug" bson:"slug"`
	ParentID   *uuid.UUID             `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Level      int                    `json:"level" bson:"level"`
	Path       []string               `json:"path" bson:"path"`
	Children   []uuid.UUID            `json:"children" bson:"children"`
	IsActive   bool                   `json:"is_active" bson:"is_active"`
	SortOrder  int                    `json:"sort_order" bson:"sort_order"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	SpecFields []SpecField            `json:"spec_fields,omitempty" bson:"spec_fields,omitempty"`
	Filters    []FilterDefinition     `json:"filters,omitempty" bson:"filters,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" bson:"updated_at"`
}
