package pricing

import (
	"testing"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompute_EmptyItems(t *testing.T) {
	totals := Compute(nil, "", 50)

	assert.Equal(t, domain.Totals{}, totals)
}

func TestCompute_Subtotal(t *testing.T) {
	items := []domain.LineItem{
		{ProductRef: "p1", UnitPrice: 100, Quantity: 2},
		{ProductRef: "p2", UnitPrice: 49.5, Quantity: 3},
	}

	totals := Compute(items, "", 0)

	assert.InDelta(t, 348.5, totals.Subtotal, 1e-9)
	assert.InDelta(t, 348.5*0.15, totals.Tax, 1e-9)
	assert.InDelta(t, 348.5+348.5*0.15, totals.Total, 1e-9)
}

func TestCompute_AdditionalCost_Percentage(t *testing.T) {
	// unitPrice=100, threshold=5, percentage=10, qty=6 => 100 * 0.10 * 6 = 60
	items := []domain.LineItem{
		{
			ProductRef:        "p1",
			UnitPrice:         100,
			Quantity:          6,
			QuantityThreshold: 5,
			AdditionalCost: &domain.AdditionalCostRule{
				Type:       domain.AdditionalCostPercentage,
				Percentage: 10,
			},
		},
	}

	totals := Compute(items, "", 0)

	assert.InDelta(t, 60, totals.AdditionalCosts, 1e-9)
}

func TestCompute_AdditionalCost_Fixed(t *testing.T) {
	items := []domain.LineItem{
		{
			ProductRef:        "p1",
			UnitPrice:         100,
			Quantity:          6,
			QuantityThreshold: 5,
			AdditionalCost: &domain.AdditionalCostRule{
				Type:  domain.AdditionalCostFixed,
				Fixed: 25,
			},
		},
	}

	totals := Compute(items, "", 0)

	assert.InDelta(t, 25, totals.AdditionalCosts, 1e-9)
}

func TestCompute_AdditionalCost_NotTriggeredAtThreshold(t *testing.T) {
	items := []domain.LineItem{
		{
			ProductRef:        "p1",
			UnitPrice:         100,
			Quantity:          5, // equal to threshold, rule must not fire
			QuantityThreshold: 5,
			AdditionalCost: &domain.AdditionalCostRule{
				Type:       domain.AdditionalCostPercentage,
				Percentage: 10,
			},
		},
	}

	totals := Compute(items, "", 0)

	assert.Zero(t, totals.AdditionalCosts)
}

func TestCompute_Discount(t *testing.T) {
	// subtotal=1000, valid code => discount=100, tax=(1000-100)*0.15=135
	items := []domain.LineItem{
		{ProductRef: "p1", UnitPrice: 500, Quantity: 2},
	}

	totals := Compute(items, "DISCOUNT10", 0)

	assert.InDelta(t, 1000, totals.Subtotal, 1e-9)
	assert.InDelta(t, 100, totals.Discount, 1e-9)
	assert.InDelta(t, 135, totals.Tax, 1e-9)
	assert.InDelta(t, 1035, totals.Total, 1e-9)
}

func TestCompute_UnknownCode_NoDiscount(t *testing.T) {
	items := []domain.LineItem{
		{ProductRef: "p1", UnitPrice: 500, Quantity: 2},
	}

	totals := Compute(items, "NOPE", 0)

	assert.Zero(t, totals.Discount)
	assert.InDelta(t, 1000*0.15, totals.Tax, 1e-9)
}

func TestCompute_ShippingNotTaxed(t *testing.T) {
	items := []domain.LineItem{
		{ProductRef: "p1", UnitPrice: 100, Quantity: 1},
	}

	withShipping := Compute(items, "", 200)
	withoutShipping := Compute(items, "", 0)

	assert.Equal(t, withShipping.Tax, withoutShipping.Tax)
	assert.InDelta(t, withoutShipping.Total+200, withShipping.Total, 1e-9)
}

func TestCompute_NegativeTotalNotClamped(t *testing.T) {
	// Negative shipping is a configuration error; the engine passes it
	// through instead of silently clamping. Pinned here on purpose.
	items := []domain.LineItem{
		{ProductRef: "p1", UnitPrice: 1, Quantity: 1},
	}

	totals := Compute(items, "", -100)

	assert.Less(t, totals.Total, 0.0)
}

func TestCompute_TotalFormula(t *testing.T) {
	items := []domain.LineItem{
		{
			ProductRef:        "p1",
			UnitPrice:         100,
			Quantity:          6,
			QuantityThreshold: 5,
			AdditionalCost: &domain.AdditionalCostRule{
				Type:       domain.AdditionalCostPercentage,
				Percentage: 10,
			},
		},
		{ProductRef: "p2", UnitPrice: 200, Quantity: 2},
	}

	totals := Compute(items, "DISCOUNT10", 30)

	expected := totals.Subtotal + totals.AdditionalCosts - totals.Discount + totals.Shipping + totals.Tax
	assert.InDelta(t, expected, totals.Total, 1e-9)
}
