package domain

// AdditionalCostType selects which tiered-cost rule applies to a line item.
type AdditionalCostType string

const (
	AdditionalCostPercentage AdditionalCostType = "percentage"
	AdditionalCostFixed      AdditionalCostType = "fixed"
)

// AdditionalCostRule describes the extra charge applied once an item's
// quantity exceeds its threshold. Exactly one of Percentage or Fixed is
// meaningful, chosen by Type.
type AdditionalCostRule struct {
	Type       AdditionalCostType `json:"type"`
	Percentage float64            `json:"percentage,omitempty"`
	Fixed      float64            `json:"fixed,omitempty"`
}

// LineItem is one product entry in a cart or wishlist.
type LineItem struct {
	ProductRef        string              `json:"product_ref"`
	Name              string              `json:"name"`
	UnitPrice         float64             `json:"unit_price"`
	Quantity          int                 `json:"quantity"`
	SelectedColor     string              `json:"selected_color,omitempty"`
	SelectedSize      string              `json:"selected_size,omitempty"`
	QuantityThreshold int                 `json:"quantity_threshold,omitempty"`
	AdditionalCost    *AdditionalCostRule `json:"additional_cost,omitempty"`
}

// Totals holds the derived pricing figures for a set of line items.
type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	AdditionalCosts float64 `json:"additional_costs"`
	Discount        float64 `json:"discount"`
	Shipping        float64 `json:"shipping"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
}

// CartState is the full cart: line items (unique by ProductRef) plus
// derived totals, recomputed after every mutating command.
type CartState struct {
	Items        []LineItem `json:"items"`
	Totals       Totals     `json:"totals"`
	DiscountCode string     `json:"discount_code,omitempty"`
}

// WishlistState holds saved items. No pricing fields.
type WishlistState struct {
	Items []LineItem `json:"items"`
}
