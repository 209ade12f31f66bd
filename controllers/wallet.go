package controllers

import (
	"errors"
	"net/http"
	"time"

	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/models"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/wallet/connect
func ConnectWallet(c *gin.Context) {
	deps := DepsInstance(c)
	if deps.Wallet == nil {
		RespondError(c, "wallet integration is not configured", http.StatusServiceUnavailable)
		return
	}

	conn, err := deps.Wallet.CreateSignIn(c.Request.Context(), requestOrigin(c, deps.Config.SiteURL)+"/wallet")
	if err != nil {
		if errors.Is(err, tools.ErrNotConfigured) {
			RespondError(c, "wallet integration is not configured", http.StatusServiceUnavailable)
			return
		}
		logger.Get().Error("wallet: create sign-in", "error", err)
		RespondError(c, "could not start wallet connection", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, conn)
}

// GET /api/wallet/status/:uuid
// Once the sign-in is signed, the account is linked to the caller's
// profile when there is a signed in caller.
func WalletStatus(c *gin.Context) {
	id, ok := ParamID(c, "uuid")
	if !ok {
		return
	}
	deps := DepsInstance(c)
	if deps.Wallet == nil {
		RespondError(c, "wallet integration is not configured", http.StatusServiceUnavailable)
		return
	}

	st, err := deps.Wallet.PayloadStatus(c.Request.Context(), id)
	if err != nil {
		if tools.IsClientError(err) {
			RespondError(c, "wallet request not found", http.StatusNotFound)
			return
		}
		logger.Get().Error("wallet: payload status", "uuid", id, "error", err)
		RespondError(c, "could not read wallet status", http.StatusInternalServerError)
		return
	}

	linked := false
	session, hasSession := GetSession(c)
	if st.Signed && st.Account != "" && hasSession {
		if db := dbpkg.DBInstance(c); db != nil {
			err := db.Model(&models.Profile{}).Where("id = ?", session.User.ID).Update("wallet_address", st.Account).Error
			if err != nil {
				logger.Get().Error("wallet: link account", "user_id", session.User.ID, "error", err)
			} else {
				linked = true
			}
		}
	}

	RespondSuccess(c, gin.H{"status": st, "linked": linked})
}

// POST /api/wallet/disconnect
func DisconnectWallet(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}
	if err := db.Model(&models.Profile{}).Where("id = ?", session.User.ID).Update("wallet_address", "").Error; err != nil {
		logger.Get().Error("wallet: unlink account", "user_id", session.User.ID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true})
}

type PriceQuote struct {
	Price     float64    `json:"price"`
	Currency  string     `json:"currency"`
	Cached    bool       `json:"cached"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func currentPrice(p PriceReader) PriceQuote {
	q := PriceQuote{Price: 0.50, Currency: "USD"}
	if p == nil {
		return q
	}
	price, at, ok := p.Latest()
	q.Price = price
	if ok {
		q.Cached = true
		q.UpdatedAt = &at
	}
	return q
}

// GET /api/xrp-price
func XRPPrice(c *gin.Context) {
	RespondSuccess(c, currentPrice(DepsInstance(c).Prices))
}
