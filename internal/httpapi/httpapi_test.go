package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/ebenezermerd/koricha-storefront/internal/payment"
	"github.com/ebenezermerd/koricha-storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Collaborator stubs ---

type stubGate struct {
	mu    sync.Mutex
	avail domain.Availability
	err   error
}

func (s *stubGate) Check(context.Context, string) (domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.Availability{}, s.err
	}
	return s.avail, nil
}

type stubVerifier struct{ complete bool }

func (s *stubVerifier) VerifyCompleteness(context.Context) (bool, error) {
	return s.complete, nil
}

type stubOrders struct {
	mu       sync.Mutex
	result   domain.OrderResult
	received []domain.OrderSnapshot
}

func (s *stubOrders) CreateOrder(_ context.Context, snapshot domain.OrderSnapshot) (domain.OrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, snapshot)
	return s.result, nil
}

type stubPayClient struct {
	pending []domain.PendingPayment
	urls    map[string]string
}

func (s *stubPayClient) ListPending(context.Context) ([]domain.PendingPayment, error) {
	return s.pending, nil
}

func (s *stubPayClient) Resume(_ context.Context, txRef string) (string, error) {
	url, ok := s.urls[txRef]
	if !ok {
		return "", errors.New("unknown tx_ref")
	}
	return url, nil
}

// --- Harness ---

type harness struct {
	router http.Handler
	gate   *stubGate
	orders *stubOrders
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	gate := &stubGate{
		avail: domain.Availability{Available: 50, InventoryType: domain.InventoryInStock, MaxPurchaseQuantity: 10},
	}
	orders := &stubOrders{result: domain.OrderResult{OrderID: "order-1"}}
	pay := &stubPayClient{urls: map[string]string{"tx-1": "https://pay.example/tx-1"}}

	sessions := NewSessions(
		store.NewMemoryStore(),
		gate,
		&stubVerifier{complete: true},
		orders,
		payment.NewResumer(pay),
		"https://shop.example/return",
		"https://shop.example/callback",
	)
	return &harness{
		router: NewRouter(sessions, 5*time.Second),
		gate:   gate,
		orders: orders,
	}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Profile-ID", "profile-1")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func addShirt(t *testing.T, h *harness, qty int) {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductRef: "shirt", Name: "Shirt", UnitPrice: 100, Quantity: qty,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// --- Cart ---

func TestCartAPI_MissingProfile(t *testing.T) {
	h := setupHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAPI_AddAndGet(t *testing.T) {
	h := setupHarness(t)
	addShirt(t, h, 2)

	rec := h.do(t, http.MethodGet, "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Items, 1)
	assert.InDelta(t, 200, state.Totals.Subtotal, 1e-9)
}

func TestCartAPI_AddRejectsInvalidQuantity(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductRef: "shirt", UnitPrice: 100, Quantity: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAPI_AddBlockedByAvailability(t *testing.T) {
	h := setupHarness(t)
	h.gate.avail = domain.Availability{Available: 1, InventoryType: domain.InventoryInStock, MaxPurchaseQuantity: 1}

	rec := h.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductRef: "shirt", UnitPrice: 100, Quantity: 2,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Command not applied: cart stays empty.
	var state domain.CartState
	get := h.do(t, http.MethodGet, "/api/v1/cart/", nil)
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
	assert.Empty(t, state.Items)
}

func TestCartAPI_AddBlockedByGateFailure(t *testing.T) {
	h := setupHarness(t)
	h.gate.err = errors.New("inventory unreachable")

	rec := h.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductRef: "shirt", UnitPrice: 100, Quantity: 1,
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCartAPI_UpdateQuantityAndRemove(t *testing.T) {
	h := setupHarness(t)
	addShirt(t, h, 2)

	rec := h.do(t, http.MethodPut, "/api/v1/cart/items/shirt", UpdateQuantityRequestDTO{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 5, state.Items[0].Quantity)

	rec = h.do(t, http.MethodDelete, "/api/v1/cart/items/shirt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Empty(t, state.Items)
}

func TestCartAPI_Discount(t *testing.T) {
	h := setupHarness(t)
	addShirt(t, h, 10) // subtotal 1000

	rec := h.do(t, http.MethodPost, "/api/v1/cart/discount", DiscountRequestDTO{Code: "DISCOUNT10"})
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.InDelta(t, 100, state.Totals.Discount, 1e-9)
	assert.InDelta(t, 135, state.Totals.Tax, 1e-9)

	// Unknown code: 200 with unchanged state, nothing leaked.
	rec = h.do(t, http.MethodPost, "/api/v1/cart/discount", DiscountRequestDTO{Code: "NOPE"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "DISCOUNT10", state.DiscountCode)
}

// --- Wishlist ---

func TestWishlistAPI_MoveToCart(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/wishlist/items", AddItemRequestDTO{
		ProductRef: "hat", Name: "Hat", UnitPrice: 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/wishlist/items/hat/move", MoveToCartRequestDTO{Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Cart     domain.CartState     `json:"cart"`
		Wishlist domain.WishlistState `json:"wishlist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 2, result.Cart.Items[0].Quantity)
	assert.Empty(t, result.Wishlist.Items)
}

func TestWishlistAPI_MoveUnknownRef(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/wishlist/items/ghost/move", MoveToCartRequestDTO{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Checkout ---

func TestCheckoutAPI_FullCashOnDeliveryFlow(t *testing.T) {
	h := setupHarness(t)
	addShirt(t, h, 2)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/billing", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/billing/address",
		domain.Address{ID: "addr-1", FullName: "Abebe B.", City: "Addis Ababa", Country: "ET"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/delivery",
		domain.DeliveryOption{Value: 60, Label: "Express"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/payment", nil).Code)

	rec := h.do(t, http.MethodPost, "/api/v1/checkout/order",
		PlaceOrderRequestDTO{Method: domain.PaymentCashOnDelivery})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result domain.OrderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "order-1", result.OrderID)

	// Cart is cleared on successful COD placement.
	var state domain.CartState
	get := h.do(t, http.MethodGet, "/api/v1/cart/", nil)
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
	assert.Empty(t, state.Items)

	// Checkout reached Success.
	var checkoutState CheckoutStateDTO
	get = h.do(t, http.MethodGet, "/api/v1/checkout/", nil)
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &checkoutState))
	assert.Equal(t, domain.StepSuccess, checkoutState.Step)
}

func TestCheckoutAPI_BeginEmptyCart(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/checkout/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutAPI_RedirectFlowKeepsCart(t *testing.T) {
	h := setupHarness(t)
	h.orders.result = domain.OrderResult{OrderID: "order-1", RedirectURL: "https://pay.example/go"}
	addShirt(t, h, 2)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/billing", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/billing/address",
		domain.Address{ID: "addr-1"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/delivery",
		domain.DeliveryOption{Value: 60, Label: "Express"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/payment", nil).Code)

	rec := h.do(t, http.MethodPost, "/api/v1/checkout/order",
		PlaceOrderRequestDTO{Method: domain.PaymentRedirect})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.OrderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "https://pay.example/go", result.RedirectURL)

	// Redirect payment: the cart survives until the provider confirms.
	var state domain.CartState
	get := h.do(t, http.MethodGet, "/api/v1/cart/", nil)
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
	assert.Len(t, state.Items, 1)

	// And the snapshot carried a tx_ref plus callback URLs.
	require.Len(t, h.orders.received, 1)
	assert.NotEmpty(t, h.orders.received[0].TxRef)
	assert.Equal(t, "https://shop.example/return", h.orders.received[0].ReturnURL)
}

func TestCheckoutAPI_SkippingStepsRejected(t *testing.T) {
	h := setupHarness(t)
	addShirt(t, h, 1)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/checkout/", nil).Code)

	// Straight to payment from cart step.
	rec := h.do(t, http.MethodPost, "/api/v1/checkout/payment", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// --- Payments ---

func TestPaymentsAPI_Resume(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/payments/tx-1/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResumeResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://pay.example/tx-1", resp.RedirectURL)
}

func TestPaymentsAPI_ResumeUnknownRef(t *testing.T) {
	h := setupHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/payments/tx-missing/resume", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
