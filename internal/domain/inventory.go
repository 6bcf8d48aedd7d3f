package domain

// InventoryType classifies a product's current stock level.
type InventoryType string

const (
	InventoryInStock    InventoryType = "in_stock"
	InventoryLowStock   InventoryType = "low_stock"
	InventoryOutOfStock InventoryType = "out_of_stock"
)

// Availability is the live stock answer for one product.
type Availability struct {
	Available           int           `json:"available"`
	InventoryType       InventoryType `json:"inventory_type"`
	MaxPurchaseQuantity int           `json:"max_purchase_quantity"`
}

// PurchasableLimit returns how many units a single purchase may take,
// the smaller of live stock and the per-purchase cap.
func (a Availability) PurchasableLimit() int {
	if a.MaxPurchaseQuantity > 0 && a.MaxPurchaseQuantity < a.Available {
		return a.MaxPurchaseQuantity
	}
	return a.Available
}
