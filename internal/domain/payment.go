package domain

import "time"

// PendingPayment is an order the server created with payment status
// "initiated" but not yet confirmed. Immutable on the client; only the
// provider's confirmation removes it from the pending set.
type PendingPayment struct {
	TxRef       string    `json:"tx_ref"`
	OrderNumber string    `json:"order_number"`
	Amount      float64   `json:"amount"`
	ItemsCount  int       `json:"items_count"`
	CreatedAt   time.Time `json:"created_at"`
}
