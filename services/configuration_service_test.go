package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

func configurableProduct() *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		Name:           "PowerEdge R740",
		Prices:         map[string]float64{"USD": 1000, "EUR": 920},
		IsConfigurable: true,
		BaseBuildHours: 24,
		OptionGroups: []models.OptionGroup{
			{
				Name:     "processor",
				Label:    "Processor",
				Required: true,
				Options: []models.ConfigOption{
					{Value: "xeon-4214", Label: "Xeon Silver 4214", PriceDeltas: map[string]float64{"USD": 50, "EUR": 45}, Stock: 3},
					{Value: "xeon-6230", Label: "Xeon Gold 6230", PriceDeltas: map[string]float64{"USD": 400, "EUR": 370}, Stock: 0},
				},
			},
			{
				Name:  "memory",
				Label: "Memory",
				Options: []models.ConfigOption{
					{Value: "64gb", Label: "64 GB", PriceDeltas: map[string]float64{"USD": 0, "EUR": 0}, Stock: 10},
					{Value: "128gb", Label: "128 GB", PriceDeltas: map[string]float64{"USD": 220, "EUR": 205}, Stock: 2},
				},
			},
		},
		Warranty: &models.WarrantyInfo{
			BaseTermMonths: 12,
			Upgrades: []models.UpgradeTier{
				{ID: "warranty-36", Label: "3 Year", Months: 36, Prices: map[string]float64{"USD": 150, "EUR": 140}},
			},
		},
		Support: &models.SupportInfo{
			BaseLevel: "business-hours",
			Upgrades: []models.UpgradeTier{
				{ID: "support-247", Label: "24/7", Level: "24x7", Prices: map[string]float64{"USD": 90, "EUR": 85}},
			},
		},
	}
}

func TestComputeTotalPrice(t *testing.T) {
	product := configurableProduct()

	t.Run("Base Plus Deltas", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214", "memory": "64gb"}
		total := ComputeTotalPrice(product, selections, "", "", "USD")
		assert.Equal(t, 1050.0, total)
	})

	t.Run("No Selections Means Base Price", func(t *testing.T) {
		total := ComputeTotalPrice(product, nil, "", "", "USD")
		assert.Equal(t, 1000.0, total)
	})

	t.Run("Upgrades Add Their Price", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214"}
		total := ComputeTotalPrice(product, selections, "warranty-36", "support-247", "USD")
		assert.Equal(t, 1000.0+50+150+90, total)
	})

	t.Run("Deltas Follow The Requested Currency", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214"}
		total := ComputeTotalPrice(product, selections, "", "", "EUR")
		assert.Equal(t, 965.0, total)
	})
}

func TestComputeBuildTime(t *testing.T) {
	t.Run("Flat Surcharge Per Selection", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214", "memory": "128gb"}
		assert.Equal(t, 32, ComputeBuildTime(24, selections))
	})

	t.Run("Empty Selections Do Not Count", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214", "memory": ""}
		assert.Equal(t, 28, ComputeBuildTime(24, selections))
	})

	t.Run("No Selections", func(t *testing.T) {
		assert.Equal(t, 24, ComputeBuildTime(24, nil))
	})
}

func TestEstimateDeliveryDays(t *testing.T) {
	// Partial assembly days round up before the shipping buffer is added.
	assert.Equal(t, 9, EstimateDeliveryDays(32))
	assert.Equal(t, 6, EstimateDeliveryDays(1))
	assert.Equal(t, 6, EstimateDeliveryDays(8))
	assert.Equal(t, 7, EstimateDeliveryDays(9))
}

func TestValidateSubmission(t *testing.T) {
	product := configurableProduct()

	t.Run("Valid Submission", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214", "memory": "64gb"}
		violations := ValidateSubmission(product, selections, "warranty-36", "support-247")
		assert.Empty(t, violations)
	})

	t.Run("Optional Group May Stay Unselected", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214"}
		assert.Empty(t, ValidateSubmission(product, selections, "", ""))
	})

	t.Run("All Violations Are Reported At Once", func(t *testing.T) {
		selections := map[string]string{
			"memory":  "2tb",      // unknown option value
			"chassis": "4u-rails", // unknown group
		}
		violations := ValidateSubmission(product, selections, "warranty-99", "")

		codes := make(map[string]string, len(violations))
		for _, v := range violations {
			codes[v.Field] = v.Code
		}
		assert.Len(t, violations, 4)
		assert.Equal(t, ViolationMissingRequiredOption, codes["processor"])
		assert.Equal(t, ViolationUnknownOption, codes["memory"])
		assert.Equal(t, ViolationUnknownOption, codes["chassis"])
		assert.Equal(t, ViolationInvalidUpgradeOption, codes["warranty"])
	})

	t.Run("Out Of Stock Option", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-6230"}
		violations := ValidateSubmission(product, selections, "", "")

		assert.Len(t, violations, 1)
		assert.Equal(t, ViolationOutOfStock, violations[0].Code)
		assert.Equal(t, "processor", violations[0].Field)
	})

	t.Run("Invalid Support Upgrade", func(t *testing.T) {
		selections := map[string]string{"processor": "xeon-4214"}
		violations := ValidateSubmission(product, selections, "", "support-vip")

		assert.Len(t, violations, 1)
		assert.Equal(t, ViolationInvalidUpgradeOption, violations[0].Code)
		assert.Equal(t, "support", violations[0].Field)
	})
}

// --- Submit ---

type fakeProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return product, nil
}

type fakeQuoteRepo struct {
	created []*models.Quote
	fail    error
}

func (f *fakeQuoteRepo) Create(_ context.Context, quote *models.Quote) error {
	if f.fail != nil {
		return f.fail
	}
	f.created = append(f.created, quote)
	return nil
}

func (f *fakeQuoteRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	for _, quote := range f.created {
		if quote.ID == id {
			return quote, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeQuotePublisher struct {
	published []*models.Quote
	fail      error
}

func (f *fakeQuotePublisher) PublishQuoteSubmitted(_ context.Context, quote *models.Quote) error {
	if f.fail != nil {
		return f.fail
	}
	f.published = append(f.published, quote)
	return nil
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	contact := models.QuoteContact{Name: "Jordan Li", Email: "jordan@example.com", Company: "Li Hosting"}

	newService := func(product *models.Product) (*ConfigurationService, *fakeQuoteRepo, *fakeQuotePublisher) {
		finder := &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}}
		quotes := &fakeQuoteRepo{}
		events := &fakeQuotePublisher{}
		return NewConfigurationService(finder, quotes, events), quotes, events
	}

	t.Run("Happy Path", func(t *testing.T) {
		product := configurableProduct()
		svc, quotes, events := newService(product)

		quote, violations, err := svc.Submit(ctx, SubmitRequest{
			ProductID:         product.ID,
			Selections:        map[string]string{"processor": "xeon-4214", "memory": "64gb"},
			WarrantyUpgradeID: "warranty-36",
			Contact:           contact,
		})

		assert.NoError(t, err)
		assert.Empty(t, violations)
		assert.Equal(t, "USD", quote.Currency)
		assert.Equal(t, 1200.0, quote.TotalPrice)
		assert.Equal(t, 32, quote.BuildTimeHours)
		assert.Equal(t, 9, quote.EstimatedDeliveryDays)
		assert.Len(t, quotes.created, 1)
		assert.Len(t, events.published, 1)
	})

	t.Run("Violations Reject Without Persisting", func(t *testing.T) {
		product := configurableProduct()
		svc, quotes, events := newService(product)

		quote, violations, err := svc.Submit(ctx, SubmitRequest{
			ProductID: product.ID,
			Contact:   contact,
		})

		assert.NoError(t, err)
		assert.Nil(t, quote)
		assert.NotEmpty(t, violations)
		assert.Empty(t, quotes.created)
		assert.Empty(t, events.published)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		svc, _, _ := newService(configurableProduct())

		_, _, err := svc.Submit(ctx, SubmitRequest{ProductID: uuid.New(), Contact: contact})

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})

	t.Run("Currency Not Priced", func(t *testing.T) {
		product := configurableProduct()
		svc, _, _ := newService(product)

		_, _, err := svc.Submit(ctx, SubmitRequest{
			ProductID:  product.ID,
			Selections: map[string]string{"processor": "xeon-4214"},
			Currency:   "GBP",
			Contact:    contact,
		})

		assert.ErrorIs(t, err, apperrors.ErrCurrencyUnavailable)
	})

	t.Run("Publish Failure Does Not Fail The Submission", func(t *testing.T) {
		product := configurableProduct()
		finder := &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}}
		quotes := &fakeQuoteRepo{}
		events := &fakeQuotePublisher{fail: errors.New("broker unreachable")}
		svc := NewConfigurationService(finder, quotes, events)

		quote, violations, err := svc.Submit(ctx, SubmitRequest{
			ProductID:  product.ID,
			Selections: map[string]string{"processor": "xeon-4214"},
			Contact:    contact,
		})

		assert.NoError(t, err)
		assert.Empty(t, violations)
		assert.NotNil(t, quote)
		assert.Len(t, quotes.created, 1)
	})

	t.Run("Submitted Quote Can Be Retrieved", func(t *testing.T) {
		product := configurableProduct()
		svc, _, _ := newService(product)

		quote, _, err := svc.Submit(ctx, SubmitRequest{
			ProductID:  product.ID,
			Selections: map[string]string{"processor": "xeon-4214"},
			Contact:    contact,
		})
		assert.NoError(t, err)

		fetched, err := svc.GetQuote(ctx, quote.ID)
		assert.NoError(t, err)
		assert.Equal(t, quote.TotalPrice, fetched.TotalPrice)

		_, err = svc.GetQuote(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrQuoteNotFound)
	})

	t.Run("Nil Publisher Is Allowed", func(t *testing.T) {
		product := configurableProduct()
		finder := &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}}
		svc := NewConfigurationService(finder, &fakeQuoteRepo{}, nil)

		quote, violations, err := svc.Submit(ctx, SubmitRequest{
			ProductID:  product.ID,
			Selections: map[string]string{"processor": "xeon-4214"},
			Contact:    contact,
		})

		assert.NoError(t, err)
		assert.Empty(t, violations)
		assert.NotNil(t, quote)
	})
}
