package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fusevip/testutil"
	"fusevip/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutEnv(t *testing.T) (*testEnv, *testutil.MockPaymentGateway) {
	e := newTestEnv(t)
	payments := new(testutil.MockPaymentGateway)
	e.deps.Payments = payments
	e.deps.Config.SiteURL = "https://fuse.vip"
	e.r.POST("/api/create-checkout-session", CreateCheckoutSession)
	return e, payments
}

func TestCreateCheckoutSession_MissingFields(t *testing.T) {
	e, payments := newCheckoutEnv(t)

	cases := map[string]any{
		"missing card type": map[string]any{"price": 100, "userId": "u1"},
		"missing price":     map[string]any{"cardType": "Gold Card", "userId": "u1"},
		"zero price":        map[string]any{"cardType": "Gold Card", "price": 0},
		"blank card type":   map[string]any{"cardType": "   ", "price": 250},
		"empty body":        map[string]any{},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/create-checkout-session", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Missing required fields", errorOf(t, w))
		})
	}
	payments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_GuestNeedsEmail(t *testing.T) {
	e, payments := newCheckoutEnv(t)

	w := e.do(t, http.MethodPost, "/api/create-checkout-session", map[string]any{
		"cardType": "Gold Card", "price": 250, "isGuest": true,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Guest email is required", errorOf(t, w))
	payments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_ReturnsURL(t *testing.T) {
	e, payments := newCheckoutEnv(t)
	payments.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(r tools.CheckoutRequest) bool {
		return r.ProductName == "Gold Card Membership" &&
			r.UnitAmount == 25000 &&
			r.Metadata["userId"] == "user-1" &&
			r.SuccessURL == "https://fuse.vip/checkout-success?session_id={CHECKOUT_SESSION_ID}"
	})).Return(&tools.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil)

	w := e.do(t, http.MethodPost, "/api/create-checkout-session", map[string]any{
		"cardType": "Gold Card", "price": 250, "userId": "user-1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", decode[map[string]string](t, w)["url"])
	payments.AssertExpectations(t)
}

func TestCreateCheckoutSession_UsesOriginHeader(t *testing.T) {
	e, payments := newCheckoutEnv(t)
	payments.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(r tools.CheckoutRequest) bool {
		return r.CancelURL == "https://preview.fuse.vip/upgrade"
	})).Return(&tools.CheckoutSession{URL: "https://checkout.stripe.com/c/cs_2"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session",
		strings.NewReader(`{"cardType":"Premium Card","price":100}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://preview.fuse.vip")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	payments.AssertExpectations(t)
}

func TestCreateCheckoutSession_GatewayError(t *testing.T) {
	e, payments := newCheckoutEnv(t)
	payments.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("card network down"))

	w := e.do(t, http.MethodPost, "/api/create-checkout-session", map[string]any{
		"cardType": "Gold Card", "price": 250,
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An error occurred while creating the checkout session", errorOf(t, w))
}

func TestBuildCheckoutRequest(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		req := BuildCheckoutRequest(CheckoutSessionRequest{
			CardType: "Obsidian Card", Price: 2500, GuestEmail: "a+b@x.com", IsGuest: true,
		}, "https://fuse.vip")

		assert.Equal(t, "Obsidian Card Membership", req.ProductName)
		assert.Equal(t, "Obsidian Card tier membership for Fuse.Vip", req.Description)
		assert.Equal(t, "usd", req.Currency)
		assert.Equal(t, int64(250000), req.UnitAmount)
		assert.Equal(t, "https://fuse.vip/checkout-success?session_id={CHECKOUT_SESSION_ID}&guest=true&email=a%2Bb%40x.com", req.SuccessURL)
		assert.Equal(t, "https://fuse.vip/upgrade", req.CancelURL)
		assert.Equal(t, "a+b@x.com", req.CustomerEmail)
		assert.Equal(t, map[string]string{
			"userId": "guest", "cardType": "Obsidian Card", "isGuest": "true", "guestEmail": "a+b@x.com",
		}, req.Metadata)
	})

	t.Run("member", func(t *testing.T) {
		req := BuildCheckoutRequest(CheckoutSessionRequest{CardType: "Gold Card", Price: 249.99, UserID: "u1"}, "http://localhost:8080")
		assert.Equal(t, int64(24999), req.UnitAmount)
		assert.Empty(t, req.CustomerEmail)
		assert.Equal(t, "u1", req.Metadata["userId"])
		assert.Equal(t, "false", req.Metadata["isGuest"])
	})
}
