package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/ebenezermerd/koricha-storefront/internal/pricing"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrIllegalTransition  = errors.New("illegal transition of checkout step")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrAddressIncomplete  = errors.New("account address is incomplete, update it in account settings")
	ErrNoBillingAddress   = errors.New("a billing address must be selected")
	ErrNoDeliverySelected = errors.New("a delivery option must be selected")
)

// AddressVerifier checks the authenticated user's primary account
// address for completeness before checkout may leave the cart step.
type AddressVerifier interface {
	VerifyCompleteness(ctx context.Context) (bool, error)
}

// OrderCreator submits the frozen order snapshot to the order service.
// Submission is idempotent by transaction reference.
type OrderCreator interface {
	CreateOrder(ctx context.Context, snapshot domain.OrderSnapshot) (domain.OrderResult, error)
}

// Machine drives one checkout session: Cart -> Billing -> Payment ->
// Success. It works on a snapshot of the cart taken at Begin; later cart
// mutations do not leak into the session. The machine is never
// persisted; abandoning it costs nothing but the accumulated
// selections.
type Machine struct {
	mu sync.Mutex

	verifier AddressVerifier
	orders   OrderCreator

	returnURL   string
	callbackURL string

	step            domain.CheckoutStep
	items           []domain.LineItem
	discountCode    string
	totals          domain.Totals
	billing         *domain.Address
	delivery        *domain.DeliveryOption
	addressVerified bool
}

func NewMachine(verifier AddressVerifier, orders OrderCreator, returnURL, callbackURL string) *Machine {
	return &Machine{
		verifier:    verifier,
		orders:      orders,
		returnURL:   returnURL,
		callbackURL: callbackURL,
		step:        domain.StepCart,
	}
}

// Begin snapshots the cart into a fresh session. Selections from a
// previous session on this machine are discarded.
func (m *Machine) Begin(cartState domain.CartState) error {
	if len(cartState.Items) == 0 {
		return ErrEmptyCart
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.step = domain.StepCart
	m.items = make([]domain.LineItem, len(cartState.Items))
	copy(m.items, cartState.Items)
	m.discountCode = cartState.DiscountCode
	m.totals = cartState.Totals
	m.billing = nil
	m.delivery = nil
	m.addressVerified = false
	return nil
}

// ProceedToBilling advances Cart -> Billing, gated by address
// verification. On a false answer or a network failure the step does
// not move. Verification holds for the rest of the session, so coming
// back from a later step and going forward again does not re-query the
// account service.
func (m *Machine) ProceedToBilling(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.step.CanTransitionTo(domain.StepBilling) {
		return ErrIllegalTransition
	}

	if !m.addressVerified {
		complete, err := m.verifier.VerifyCompleteness(ctx)
		if err != nil {
			return fmt.Errorf("address verification failed: %w", err)
		}
		if !complete {
			return ErrAddressIncomplete
		}
		m.addressVerified = true
	}

	m.step = domain.StepBilling
	return nil
}

// SelectBillingAddress records the chosen address. Allowed at any step
// before Success so back navigation does not lose the selection.
func (m *Machine) SelectBillingAddress(addr domain.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := addr
	m.billing = &a
}

// SelectDelivery records the shipping choice and recomputes the
// session totals on the snapshot.
func (m *Machine) SelectDelivery(opt domain.DeliveryOption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := opt
	m.delivery = &o
	m.totals = pricing.Compute(m.items, m.discountCode, opt.Value)
}

// ProceedToPayment advances Billing -> Payment, gated by a selected
// billing address.
func (m *Machine) ProceedToPayment() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.step.CanTransitionTo(domain.StepPayment) {
		return ErrIllegalTransition
	}
	if m.billing == nil {
		return ErrNoBillingAddress
	}

	m.step = domain.StepPayment
	return nil
}

// PlaceOrder submits the order. Cash on delivery completes immediately
// and the machine reaches Success. The redirect method returns the
// provider's redirect URL and leaves the step at Payment: Success is
// only reached via the provider's redirect-back callback, outside this
// machine.
func (m *Machine) PlaceOrder(ctx context.Context, method domain.PaymentMethod) (domain.OrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != domain.StepPayment {
		return domain.OrderResult{}, ErrIllegalTransition
	}
	if m.delivery == nil {
		return domain.OrderResult{}, ErrNoDeliverySelected
	}

	snapshot := domain.OrderSnapshot{
		Items:          m.items,
		BillingAddress: *m.billing,
		Delivery:       *m.delivery,
		Totals:         m.totals,
		Method:         method,
	}
	if method == domain.PaymentRedirect {
		snapshot.TxRef = newTxRef()
		snapshot.ReturnURL = m.returnURL
		snapshot.CallbackURL = m.callbackURL
	}

	result, err := m.orders.CreateOrder(ctx, snapshot)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("order creation failed: %w", err)
	}

	if method == domain.PaymentCashOnDelivery {
		m.step = domain.StepSuccess
	} else {
		logrus.Infof("order %s awaiting external payment, tx_ref=%s", result.OrderID, snapshot.TxRef)
	}
	return result, nil
}

// Back navigates to the cart step. Accumulated selections (billing
// address, delivery option) are preserved so forward navigation does
// not require re-entry.
func (m *Machine) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = domain.StepCart
}

// Reset returns the machine, including the embedded cart snapshot, to
// the empty initial state. The independently owned cart aggregate is
// not touched; it is cleared separately on successful order placement.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = domain.StepCart
	m.items = nil
	m.discountCode = ""
	m.totals = domain.Totals{}
	m.billing = nil
	m.delivery = nil
	m.addressVerified = false
}

// Step returns the current checkout step.
func (m *Machine) Step() domain.CheckoutStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Totals returns the session totals computed on the snapshot.
func (m *Machine) Totals() domain.Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// Items returns the snapshot taken at Begin.
func (m *Machine) Items() []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LineItem, len(m.items))
	copy(out, m.items)
	return out
}

// BillingAddress returns the selected address, if any.
func (m *Machine) BillingAddress() (domain.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.billing == nil {
		return domain.Address{}, false
	}
	return *m.billing, true
}

// Delivery returns the selected delivery option, if any.
func (m *Machine) Delivery() (domain.DeliveryOption, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delivery == nil {
		return domain.DeliveryOption{}, false
	}
	return *m.delivery, true
}

func newTxRef() string {
	return "tx-" + uuid.New().String()
}
