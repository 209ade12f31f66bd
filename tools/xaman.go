package tools

import (
	"context"
	"net/http"
)

const XamanBaseURL = "https://xumm.app/api/v1"

type WalletConnection struct {
	UUID         string `json:"uuid"`
	QRURL        string `json:"qr_url"`
	Deeplink     string `json:"deeplink"`
	WebsocketURL string `json:"websocket_url"`
}

type WalletStatus struct {
	UUID     string `json:"uuid"`
	Resolved bool   `json:"resolved"`
	Signed   bool   `json:"signed"`
	Expired  bool   `json:"expired"`
	Account  string `json:"account"`
}

// WalletClient opens XRPL wallet sign-in requests and reports their outcome.
type WalletClient interface {
	CreateSignIn(ctx context.Context, returnURL string) (*WalletConnection, error)
	PayloadStatus(ctx context.Context, uuid string) (*WalletStatus, error)
}

type XamanClient struct {
	BaseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewXamanClient(apiKey, apiSecret string) *XamanClient {
	return &XamanClient{BaseURL: XamanBaseURL, apiKey: apiKey, apiSecret: apiSecret, client: newHTTPClient()}
}

func (x *XamanClient) headers() map[string]string {
	return map[string]string{
		"X-API-Key":    x.apiKey,
		"X-API-Secret": x.apiSecret,
	}
}

func (x *XamanClient) CreateSignIn(ctx context.Context, returnURL string) (*WalletConnection, error) {
	if x.apiKey == "" || x.apiSecret == "" {
		return nil, ErrNotConfigured
	}

	body := map[string]any{
		"txjson": map[string]any{"TransactionType": "SignIn"},
	}
	if returnURL != "" {
		body["options"] = map[string]any{"return_url": map[string]string{"web": returnURL}}
	}

	var out struct {
		UUID string `json:"uuid"`
		Next struct {
			Always string `json:"always"`
		} `json:"next"`
		Refs struct {
			QRPng           string `json:"qr_png"`
			WebsocketStatus string `json:"websocket_status"`
		} `json:"refs"`
	}
	if err := doJSON(ctx, x.client, "xaman", http.MethodPost, x.BaseURL+"/platform/payload", x.headers(), body, &out); err != nil {
		return nil, err
	}

	return &WalletConnection{
		UUID:         out.UUID,
		QRURL:        out.Refs.QRPng,
		Deeplink:     out.Next.Always,
		WebsocketURL: out.Refs.WebsocketStatus,
	}, nil
}

func (x *XamanClient) PayloadStatus(ctx context.Context, uuid string) (*WalletStatus, error) {
	if x.apiKey == "" || x.apiSecret == "" {
		return nil, ErrNotConfigured
	}

	var out struct {
		Meta struct {
			UUID     string `json:"uuid"`
			Resolved bool   `json:"resolved"`
			Signed   bool   `json:"signed"`
			Expired  bool   `json:"expired"`
		} `json:"meta"`
		Response struct {
			Account string `json:"account"`
		} `json:"response"`
	}
	if err := doJSON(ctx, x.client, "xaman", http.MethodGet, x.BaseURL+"/platform/payload/"+uuid, x.headers(), nil, &out); err != nil {
		return nil, err
	}

	return &WalletStatus{
		UUID:     out.Meta.UUID,
		Resolved: out.Meta.Resolved,
		Signed:   out.Meta.Signed,
		Expired:  out.Meta.Expired,
		Account:  out.Response.Account,
	}, nil
}
