package pricing

import (
	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

// DiscountRate is applied to the subtotal when a registered code is used.
const DiscountRate = 0.10

// VATRate is the flat tax applied to the discounted subtotal. Additional
// costs and shipping are not taxed.
const VATRate = 0.15

// Known discount codes. Unknown codes are silently ignored so callers
// cannot probe which codes exist.
var discountCodes = map[string]float64{
	"DISCOUNT10": DiscountRate,
}

// CodeRegistered reports whether code grants a discount.
func CodeRegistered(code string) bool {
	_, ok := discountCodes[code]
	return ok
}

// Compute derives the full totals breakdown for a set of line items.
// It is a pure function: same inputs, same Totals.
//
// Negative results are not clamped. A discount or shipping configuration
// that drives the total below zero passes through unchanged.
func Compute(items []domain.LineItem, discountCode string, shipping float64) domain.Totals {
	if len(items) == 0 {
		return domain.Totals{}
	}

	var subtotal, additional float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
		additional += additionalCost(item)
	}

	var discount float64
	if rate, ok := discountCodes[discountCode]; ok {
		discount = subtotal * rate
	}

	tax := (subtotal - discount) * VATRate

	return domain.Totals{
		Subtotal:        subtotal,
		AdditionalCosts: additional,
		Discount:        discount,
		Shipping:        shipping,
		Tax:             tax,
		Total:           subtotal + additional - discount + shipping + tax,
	}
}

// additionalCost applies the item's tiered-cost rule, if any. The rule
// only kicks in once quantity exceeds the configured threshold.
func additionalCost(item domain.LineItem) float64 {
	if item.AdditionalCost == nil || item.QuantityThreshold <= 0 {
		return 0
	}
	if item.Quantity <= item.QuantityThreshold {
		return 0
	}
	switch item.AdditionalCost.Type {
	case domain.AdditionalCostPercentage:
		return item.UnitPrice * (item.AdditionalCost.Percentage / 100) * float64(item.Quantity)
	case domain.AdditionalCostFixed:
		return item.AdditionalCost.Fixed
	default:
		return 0
	}
}
