package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// Build-time and delivery heuristics. Every selected option adds a flat four
// hours of assembly regardless of component type; delivery adds a fixed
// shipping buffer on top of whole assembly days.
const (
	HoursPerSelectedOption = 4
	AssemblyHoursPerDay    = 8
	ShippingBufferDays     = 5
)

// DefaultCurrency is assumed when a submission does not name one.
const DefaultCurrency = "USD"

// Violation codes reported by ValidateSubmission.
const (
	ViolationMissingRequiredOption = "MissingRequiredOption"
	ViolationOutOfStock            = "OutOfStock"
	ViolationInvalidUpgradeOption  = "InvalidUpgradeOption"
	ViolationUnknownOption         = "UnknownOption"
)

// Violation is a single submission problem. Field names the option group or
// upgrade slot the violation applies to.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// QuoteRepository persists submitted configurations.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

// QuoteEventPublisher announces accepted quotes downstream.
type QuoteEventPublisher interface {
	PublishQuoteSubmitted(ctx context.Context, quote *models.Quote) error
}

// SubmitRequest is a quote submission from the configuration builder.
type SubmitRequest struct {
	ProductID         uuid.UUID
	Selections        map[string]string
	WarrantyUpgradeID string
	SupportUpgradeID  string
	Currency          string
	Contact           models.QuoteContact
}

type ConfigurationService struct {
	products ProductFinder
	quotes   QuoteRepository
	events   QuoteEventPublisher
}

// ProductFinder is the slice of the product repository configuration
// submission needs.
type ProductFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// NewConfigurationService wires the quote pipeline. events may be nil; quote
// submission then skips publishing.
func NewConfigurationService(products ProductFinder, quotes QuoteRepository, events QuoteEventPublisher) *ConfigurationService {
	return &ConfigurationService{products: products, quotes: quotes, events: events}
}

// ComputeTotalPrice sums the base price in the requested currency with the
// price delta of every selected option and the price of any selected warranty
// or support upgrade. No currency conversion happens; deltas are expected to
// be maintained per currency.
func ComputeTotalPrice(p *models.Product, selections map[string]string, warrantyID, supportID, currency string) float64 {
	total := p.Prices[currency]

	for i := range p.OptionGroups {
		group := &p.OptionGroups[i]
		value := selections[group.Name]
		if value == "" {
			continue
		}
		if opt := group.FindOption(value); opt != nil {
			total += opt.PriceDeltas[currency]
		}
	}

	if warrantyID != "" && p.Warranty != nil {
		if u := models.FindUpgrade(p.Warranty.Upgrades, warrantyID); u != nil {
			total += u.Prices[currency]
		}
	}
	if supportID != "" && p.Support != nil {
		if u := models.FindUpgrade(p.Support.Upgrades, supportID); u != nil {
			total += u.Prices[currency]
		}
	}
	return total
}

// ComputeBuildTime is the base build time plus a flat per-option surcharge
// for every non-empty selection.
func ComputeBuildTime(baseHours int, selections map[string]string) int {
	selected := 0
	for _, value := range selections {
		if value != "" {
			selected++
		}
	}
	return baseHours + selected*HoursPerSelectedOption
}

// ValidateSubmission collects every violation in the submission instead of
// stopping at the first.
func ValidateSubmission(p *models.Product, selections map[string]string, warrantyID, supportID string) []Violation {
	var violations []Violation

	for i := range p.OptionGroups {
		group := &p.OptionGroups[i]
		value := selections[group.Name]
		if value == "" {
			if group.Required {
				violations = append(violations, Violation{
					Code:    ViolationMissingRequiredOption,
					Field:   group.Name,
					Message: fmt.Sprintf("A selection is required for %q", group.Name),
				})
			}
			continue
		}
		opt := group.FindOption(value)
		if opt == nil {
			violations = append(violations, Violation{
				Code:    ViolationUnknownOption,
				Field:   group.Name,
				Message: fmt.Sprintf("%q is not an available option for %q", value, group.Name),
			})
			continue
		}
		if opt.Stock == 0 {
			violations = append(violations, Violation{
				Code:    ViolationOutOfStock,
				Field:   group.Name,
				Message: fmt.Sprintf("Option %q for %q is out of stock", value, group.Name),
			})
		}
	}

	// Selections naming a group the product does not carry are violations too.
	for name := range selections {
		if selections[name] != "" && p.FindOptionGroup(name) == nil {
			violations = append(violations, Violation{
				Code:    ViolationUnknownOption,
				Field:   name,
				Message: fmt.Sprintf("Product has no option group %q", name),
			})
		}
	}

	if warrantyID != "" {
		if p.Warranty == nil || models.FindUpgrade(p.Warranty.Upgrades, warrantyID) == nil {
			violations = append(violations, Violation{
				Code:    ViolationInvalidUpgradeOption,
				Field:   "warranty",
				Message: fmt.Sprintf("%q is not an available warranty upgrade", warrantyID),
			})
		}
	}
	if supportID != "" {
		if p.Support == nil || models.FindUpgrade(p.Support.Upgrades, supportID) == nil {
			violations = append(violations, Violation{
				Code:    ViolationInvalidUpgradeOption,
				Field:   "support",
				Message: fmt.Sprintf("%q is not an available support upgrade", supportID),
			})
		}
	}
	return violations
}

// EstimateDeliveryDays converts a build time into business days plus the
// shipping buffer. Partial assembly days round up.
func EstimateDeliveryDays(buildHours int) int {
	assemblyDays := (buildHours + AssemblyHoursPerDay - 1) / AssemblyHoursPerDay
	return assemblyDays + ShippingBufferDays
}

// GetQuote returns a previously submitted quote.
func (s *ConfigurationService) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return quote, nil
}

// Submit validates a configuration, computes its price and build time, and
// persists the quote. A non-empty violation list means the submission was
// rejected; the error return covers lookup and persistence failures only.
func (s *ConfigurationService) Submit(ctx context.Context, req SubmitRequest) (*models.Quote, []Violation, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apperrors.ErrProductNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	if _, ok := product.Prices[currency]; !ok {
		return nil, nil, apperrors.ErrCurrencyUnavailable
	}

	if violations := ValidateSubmission(product, req.Selections, req.WarrantyUpgradeID, req.SupportUpgradeID); len(violations) > 0 {
		return nil, violations, nil
	}

	buildHours := ComputeBuildTime(product.BaseBuildHours, req.Selections)
	quote := &models.Quote{
		ID:                    uuid.New(),
		ProductID:             product.ID,
		Selections:            req.Selections,
		WarrantyUpgradeID:     req.WarrantyUpgradeID,
		SupportUpgradeID:      req.SupportUpgradeID,
		Currency:              currency,
		TotalPrice:            ComputeTotalPrice(product, req.Selections, req.WarrantyUpgradeID, req.SupportUpgradeID, currency),
		BuildTimeHours:        buildHours,
		EstimatedDeliveryDays: EstimateDeliveryDays(buildHours),
		Contact:               req.Contact,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if s.events != nil {
		if err := s.events.PublishQuoteSubmitted(ctx, quote); err != nil {
			// The quote is already stored; publishing is best effort.
			zap.L().Warn("Failed to publish quote event", zap.String("quote_id", quote.ID.String()), zap.Error(err))
		}
	}
	return quote, nil, nil
}
