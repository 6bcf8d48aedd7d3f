package domain

// CheckoutStep represents the state of the checkout flow.
type CheckoutStep string

const (
	StepCart    CheckoutStep = "CART"
	StepBilling CheckoutStep = "BILLING"
	StepPayment CheckoutStep = "PAYMENT"
	StepSuccess CheckoutStep = "SUCCESS"
)

// CanTransitionTo reports whether moving from s to next is a legal step
// transition. Back navigation to the cart step is always allowed.
func (s CheckoutStep) CanTransitionTo(next CheckoutStep) bool {
	if next == StepCart {
		return true
	}
	switch s {
	case StepCart:
		return next == StepBilling
	case StepBilling:
		return next == StepPayment
	case StepPayment:
		return next == StepSuccess
	default:
		return false
	}
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

// PaymentMethod is the way an order is paid for.
type PaymentMethod string

const (
	// PaymentCashOnDelivery completes the order immediately server-side.
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	// PaymentRedirect hands the user to an external payment page; the
	// order stays pending until the provider confirms.
	PaymentRedirect PaymentMethod = "redirect"
)

// Address is a billing address reference from the user's address book.
type Address struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// DeliveryOption is a selectable shipping choice.
type DeliveryOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// OrderSnapshot is the frozen order payload sent to the order service:
// cart contents and totals as they were when the order was placed.
type OrderSnapshot struct {
	Items          []LineItem     `json:"items"`
	BillingAddress Address        `json:"billing_address"`
	Delivery       DeliveryOption `json:"delivery"`
	Totals         Totals         `json:"totals"`
	Method         PaymentMethod  `json:"method"`
	TxRef          string         `json:"tx_ref,omitempty"`
	ReturnURL      string         `json:"return_url,omitempty"`
	CallbackURL    string         `json:"callback_url,omitempty"`
}

// OrderResult is the order service's reply to snapshot submission.
type OrderResult struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"checkout_redirect_url,omitempty"`
}
