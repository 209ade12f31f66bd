package controllers

import (
	"errors"
	"net/http"
	"testing"

	"fusevip/testutil"
	"fusevip/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTestSupabase(t *testing.T) {
	e := newTestEnv(t)
	auth := new(testutil.MockAuthClient)
	auth.On("Health", mock.Anything).Return(nil).Once()
	auth.On("Health", mock.Anything).Return(errors.New("502 bad gateway")).Once()
	auth.On("Health", mock.Anything).Return(tools.ErrNotConfigured).Once()
	e.deps.Auth = auth
	e.deps.Config.Supabase.URL = "https://x.supabase.co"
	e.deps.Config.Stripe.SecretKey = "sk_test"
	e.r.GET("/api/test-supabase", TestSupabase)

	w := e.do(t, http.MethodGet, "/api/test-supabase", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[ConnectionReport](t, w)
	assert.True(t, report.Success)
	assert.Equal(t, "Connected successfully", report.Database)
	assert.Equal(t, "Connected successfully", report.Auth)
	assert.True(t, report.Env.HasSupabaseURL)
	assert.False(t, report.Env.HasSupabaseAnonKey)
	assert.True(t, report.Env.HasStripeSecretKey)
	assert.False(t, report.Env.HasXamanAPIKey)

	report = decode[ConnectionReport](t, e.do(t, http.MethodGet, "/api/test-supabase", nil, ""))
	assert.Equal(t, "Error: 502 bad gateway", report.Auth)

	report = decode[ConnectionReport](t, e.do(t, http.MethodGet, "/api/test-supabase", nil, ""))
	assert.Equal(t, "Not configured", report.Auth)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	e.r.GET("/health", Health)

	w := e.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}
