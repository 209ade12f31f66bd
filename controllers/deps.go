package controllers

import (
	"time"

	"fusevip/config"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
)

// PriceReader exposes the last XRP quote fetched in the background.
type PriceReader interface {
	Latest() (price float64, updatedAt time.Time, ok bool)
}

// Deps groups the integrations handlers reach through the gin context.
// Any client may be nil when its keys are not configured.
type Deps struct {
	Config   config.Configuration
	Auth     tools.AuthClient
	Payments tools.PaymentGateway
	Wallet   tools.WalletClient
	Prices   PriceReader
	Verifier *TokenVerifier
}

const depsKey = "deps"

func SetDepsToContext(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(depsKey, deps)
		c.Next()
	}
}

// DepsInstance returns the injected dependencies, or an empty set so
// handlers can degrade instead of panicking.
func DepsInstance(c *gin.Context) *Deps {
	if v, ok := c.Get(depsKey); ok {
		if deps, ok := v.(*Deps); ok && deps != nil {
			return deps
		}
	}
	return &Deps{}
}
