package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfigOption is one selectable choice within an option group. PriceDeltas
// are keyed by ISO currency code and are absolute adjustments on top of the
// product's base price in the same currency.
type ConfigOption struct {
	Value       string             `json:"value" bson:"value"`
	Label       string             `json:"label" bson:"label"`
	PriceDeltas map[string]float64 `json:"price_deltas" bson:"price_deltas"`
	Stock       int                `json:"stock" bson:"stock"`
}

// OptionGroup is a named set of mutually exclusive options, e.g. "Processor".
type OptionGroup struct {
	Name     string         `json:"name" bson:"name"`
	Label    string         `json:"label" bson:"label"`
	Required bool           `json:"required" bson:"required"`
	Options  []ConfigOption `json:"options" bson:"options"`
}

// UpgradeTier is a paid warranty or support upgrade.
type UpgradeTier struct {
	ID     string             `json:"id" bson:"id"`
	Label  string             `json:"label" bson:"label"`
	Months int                `json:"months,omitempty" bson:"months,omitempty"`
	Level  string             `json:"level,omitempty" bson:"level,omitempty"`
	Prices map[string]float64 `json:"prices" bson:"prices"`
}

// WarrantyInfo holds the included warranty term plus purchasable upgrades.
type WarrantyInfo struct {
	BaseTermMonths int           `json:"base_term_months" bson:"base_term_months"`
	Upgrades       []UpgradeTier `json:"upgrades,omitempty" bson:"upgrades,omitempty"`
}

// SupportInfo holds the included support level plus purchasable upgrades.
type SupportInfo struct {
	BaseLevel string        `json:"base_level" bson:"base_level"`
	Upgrades  []UpgradeTier `json:"upgrades,omitempty" bson:"upgrades,omitempty"`
}

// Product is a catalog record. Prices are keyed by ISO currency code.
// Configurable SKUs carry option groups plus warranty/support upgrade tiers.
type Product struct {
	ID             uuid.UUID          `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description" bson:"description"`
	SKU            string             `json:"sku" bson:"sku"`
	Brand          string             `json:"brand" bson:"brand"`
	Condition      string             `json:"condition" bson:"condition"`
	Prices         map[string]float64 `json:"prices" bson:"prices"`
	CategoryID     uuid.UUID          `json:"category_id" bson:"category_id"`
	Images         []string           `json:"images" bson:"images"`
	Stock          int                `json:"stock" bson:"stock"`
	Specifications map[string]string  `json:"specifications,omitempty" bson:"specifications,omitempty"`
	IsFeatured     bool               `json:"is_featured" bson:"is_featured"`
	IsConfigurable bool               `json:"is_configurable" bson:"is_configurable"`
	BaseBuildHours int                `json:"base_build_hours" bson:"base_build_hours"`
	OptionGroups   []OptionGroup      `json:"option_groups,omitempty" bson:"option_groups,omitempty"`
	Warranty       *WarrantyInfo      `json:"warranty,omitempty" bson:"warranty,omitempty"`
	Support        *SupportInfo       `json:"support,omitempty" bson:"support,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	DeletedAt      *time.Time         `json:"-" bson:"deleted_at,omitempty"`
}

// FindOptionGroup returns the option group with the given name, or nil.
func (p *Product) FindOptionGroup(name string) *OptionGroup {
	for i := range p.OptionGroups {
		if p.OptionGroups[i].Name == name {
			return &p.OptionGroups[i]
		}
	}
	return nil
}

// FindOption returns the option with the given value, or nil.
func (g *OptionGroup) FindOption(value string) *ConfigOption {
	for i := range g.Options {
		if g.Options[i].Value == value {
			return &g.Options[i]
		}
	}
	return nil
}

// FindUpgrade returns the upgrade tier with the given id, or nil.
func FindUpgrade(upgrades []UpgradeTier, id string) *UpgradeTier {
	for i := range upgrades {
		if upgrades[i].ID == id {
			return &upgrades[i]
		}
	}
	return nil
}
