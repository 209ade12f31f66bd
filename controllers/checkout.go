package controllers

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"

	"fusevip/logger"
	"fusevip/models"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
)

// CheckoutSessionRequest is the body of POST /api/create-checkout-session.
type CheckoutSessionRequest struct {
	CardType   string  `json:"cardType"`
	Price      float64 `json:"price"`
	UserID     string  `json:"userId"`
	GuestEmail string  `json:"guestEmail"`
	IsGuest    bool    `json:"isGuest"`
}

// BuildCheckoutRequest turns a card purchase into the gateway request:
// one line item of price dollars, success and cancel pages under origin,
// and the metadata the webhook needs to record the purchase.
func BuildCheckoutRequest(req CheckoutSessionRequest, origin string) tools.CheckoutRequest {
	successURL := origin + "/checkout-success?session_id={CHECKOUT_SESSION_ID}"
	guestEmail := ""
	customerEmail := ""
	if req.IsGuest {
		successURL += "&guest=true&email=" + url.QueryEscape(req.GuestEmail)
		guestEmail = req.GuestEmail
		customerEmail = req.GuestEmail
	}

	userID := req.UserID
	if userID == "" {
		userID = "guest"
	}
	isGuest := "false"
	if req.IsGuest {
		isGuest = "true"
	}

	return tools.CheckoutRequest{
		ProductName:   req.CardType + " Membership",
		Description:   req.CardType + " tier membership for Fuse.Vip",
		Currency:      "usd",
		UnitAmount:    int64(math.Round(req.Price * 100)),
		SuccessURL:    successURL,
		CancelURL:     origin + "/upgrade",
		CustomerEmail: customerEmail,
		Metadata: map[string]string{
			"userId":     userID,
			"cardType":   req.CardType,
			"isGuest":    isGuest,
			"guestEmail": guestEmail,
		},
	}
}

// POST /api/create-checkout-session
func CreateCheckoutSession(c *gin.Context) {
	var req CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, "Missing required fields", http.StatusBadRequest)
		return
	}
	req.CardType = strings.TrimSpace(req.CardType)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)

	if req.CardType == "" || req.Price <= 0 {
		RespondError(c, "Missing required fields", http.StatusBadRequest)
		return
	}
	if req.IsGuest && req.GuestEmail == "" {
		RespondError(c, "Guest email is required", http.StatusBadRequest)
		return
	}

	deps := DepsInstance(c)
	if deps.Payments == nil {
		logger.Get().Error("checkout: payment gateway not configured")
		RespondError(c, "An error occurred while creating the checkout session", http.StatusInternalServerError)
		return
	}

	origin := requestOrigin(c, deps.Config.SiteURL)
	session, err := deps.Payments.CreateCheckoutSession(c.Request.Context(), BuildCheckoutRequest(req, origin))
	if err != nil {
		if errors.Is(err, tools.ErrNotConfigured) {
			logger.Get().Error("checkout: STRIPE_SECRET_KEY missing")
		} else {
			logger.Get().Error("checkout: create session", "card_type", req.CardType, "error", err)
		}
		RespondError(c, "An error occurred while creating the checkout session", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"url": session.URL})
}

// GET /api/cards/tiers
func GetCardTiers(c *gin.Context) {
	RespondSuccess(c, models.CardTiers)
}
