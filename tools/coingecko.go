package tools

import (
	"context"
	"fmt"
	"net/http"
)

const CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// PriceSource quotes XRP in USD.
type PriceSource interface {
	XRPUSD(ctx context.Context) (float64, error)
}

type CoinGecko struct {
	BaseURL string
	client  *http.Client
}

func NewCoinGecko() *CoinGecko {
	return &CoinGecko{BaseURL: CoinGeckoBaseURL, client: newHTTPClient()}
}

func (g *CoinGecko) XRPUSD(ctx context.Context) (float64, error) {
	var out map[string]map[string]float64
	u := g.BaseURL + "/simple/price?ids=ripple&vs_currencies=usd"
	if err := doJSON(ctx, g.client, "coingecko", http.MethodGet, u, nil, nil, &out); err != nil {
		return 0, err
	}
	price, ok := out["ripple"]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko: ripple/usd missing from response")
	}
	return price, nil
}
