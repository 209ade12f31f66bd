package controllers

import (
	"net/http"
	"testing"

	"fusevip/models"
	"fusevip/testutil"
	"fusevip/tools"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthEnv(t *testing.T) (*testEnv, *testutil.MockAuthClient) {
	e := newTestEnv(t)
	auth := new(testutil.MockAuthClient)
	e.deps.Auth = auth
	e.r.POST("/api/auth/register", Register)
	e.r.POST("/api/auth/login", Login)
	e.r.POST("/api/auth/refresh", Refresh)
	e.r.POST("/api/auth/logout", Logout)
	return e, auth
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestRegister_CreatesProfileAndClaimsGuestPurchases(t *testing.T) {
	e, auth := newAuthEnv(t)
	id := uuid.NewString()
	auth.On("SignUp", mock.Anything, "new@fuse.vip", "secret1").Return(&tools.AuthSession{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		User:         tools.AuthUser{ID: id, Email: "new@fuse.vip"},
	}, nil)
	require.NoError(t, e.db.Create(&models.GuestPurchase{
		Email: "NEW@fuse.vip", CardType: "Gold Card", SessionID: "cs_1", Amount: 250,
		Status: models.GUEST_PURCHASE_STATUS_COMPLETED,
	}).Error)

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "new@fuse.vip", "password": "secret1", "first_name": "Ada", "last_name": "Lovelace",
		"business": map[string]any{"name": "Ada's", "category": "food"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode[AuthResponse](t, w)
	assert.Equal(t, "access", out.AccessToken)
	assert.False(t, out.AwaitingConfirmation)
	require.NotNil(t, out.Business)
	assert.Equal(t, models.BUSINESS_STATUS_PENDING, out.Business.Status)
	assert.True(t, out.Session.IsBusinessOwner)

	token, ok := cookieValue(w.Result(), AccessTokenCookie)
	assert.True(t, ok)
	assert.Equal(t, "access", token)

	var p models.Profile
	require.NoError(t, e.db.Where("id = ?", id).First(&p).Error)
	assert.Equal(t, "Ada", p.FirstName)
	assert.True(t, p.IsCardHolder)
	assert.Equal(t, 1, count(t, e.db, &models.UserCard{}))
}

func TestRegister_AwaitingConfirmation(t *testing.T) {
	e, auth := newAuthEnv(t)
	auth.On("SignUp", mock.Anything, "later@fuse.vip", "secret1").Return(&tools.AuthSession{
		User: tools.AuthUser{ID: uuid.NewString(), Email: "later@fuse.vip"},
	}, nil)

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "later@fuse.vip", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode[AuthResponse](t, w).AwaitingConfirmation)
	_, ok := cookieValue(w.Result(), AccessTokenCookie)
	assert.False(t, ok)
}

func TestRegister_Validation(t *testing.T) {
	e, auth := newAuthEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "nope", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "a@b.co", "password": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "a@b.co", "password": "secret1", "business": map[string]any{"name": "No category"},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_AuthRejects(t *testing.T) {
	e, auth := newAuthEnv(t)
	auth.On("SignUp", mock.Anything, "taken@fuse.vip", "secret1").
		Return(nil, &tools.APIError{Service: "auth", Status: 422, Message: "User already registered"})

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "taken@fuse.vip", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already registered", errorOf(t, w))
}

func TestLogin(t *testing.T) {
	e, auth := newAuthEnv(t)
	id, _ := e.signIn(t, "member@fuse.vip")
	auth.On("SignIn", mock.Anything, "member@fuse.vip", "secret1").Return(&tools.AuthSession{
		AccessToken: "access", RefreshToken: "refresh", User: tools.AuthUser{ID: id, Email: "member@fuse.vip"},
	}, nil)
	auth.On("SignIn", mock.Anything, "member@fuse.vip", "wrong").
		Return(nil, &tools.APIError{Service: "auth", Status: 400, Message: "Invalid login credentials"})

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "member@fuse.vip", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[AuthResponse](t, w)
	assert.Equal(t, "access", out.AccessToken)
	require.NotNil(t, out.Session.Profile)
	assert.Equal(t, id, out.Session.Profile.ID)

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "member@fuse.vip", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid login credentials", errorOf(t, w))

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "", "password": ""}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_NotConfigured(t *testing.T) {
	e, auth := newAuthEnv(t)
	auth.On("SignIn", mock.Anything, mock.Anything, mock.Anything).Return(nil, tools.ErrNotConfigured)

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.co", "password": "secret1"}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRefresh(t *testing.T) {
	e, auth := newAuthEnv(t)
	auth.On("Refresh", mock.Anything, "refresh").Return(&tools.AuthSession{
		AccessToken: "access2", RefreshToken: "refresh2", User: tools.AuthUser{ID: uuid.NewString()},
	}, nil)

	w := e.do(t, http.MethodPost, "/api/auth/refresh", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/refresh", map[string]any{"refresh_token": "refresh"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "access2", decode[AuthResponse](t, w).AccessToken)
}

func TestLogout_RevokesAndClearsCookies(t *testing.T) {
	e, auth := newAuthEnv(t)
	auth.On("SignOut", mock.Anything, "access").Return(nil)

	w := e.do(t, http.MethodPost, "/api/auth/logout", nil, "access")
	require.Equal(t, http.StatusOK, w.Code)
	auth.AssertExpectations(t)

	for _, c := range w.Result().Cookies() {
		if c.Name == AccessTokenCookie || c.Name == RefreshTokenCookie {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
}
