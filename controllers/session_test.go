package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fusevip/models"
	"fusevip/testutil"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveSession_Owner(t *testing.T) {
	db := testutil.NewDB(t)
	id := uuid.NewString()
	testutil.CreateProfile(t, db, id, "owner@fuse.vip")
	testutil.GrantUserRole(t, db, id, "member")
	testutil.GrantPortalRole(t, db, id, models.ROLE_ADMIN)
	b := testutil.CreateBusiness(t, db, models.Business{UserID: id, Name: "Cafe", Category: "food"})
	for range 2 {
		require.NoError(t, db.Create(&models.Referral{BusinessID: b.ID, ReferredEmail: "x@y.co"}).Error)
	}

	s := ResolveSession(db, tools.AuthUser{ID: id, Email: "owner@fuse.vip"})

	require.NotNil(t, s.Profile)
	assert.Equal(t, "owner@fuse.vip", s.Profile.Email)
	assert.Equal(t, []string{"member"}, s.Roles)
	assert.Equal(t, []string{models.ROLE_ADMIN}, s.PortalRoles)
	assert.True(t, s.IsAdmin)
	assert.True(t, s.IsBusinessOwner)
	assert.Equal(t, b.ID, s.BusinessID)
	assert.Equal(t, 2, s.ReferralCount)
}

func TestResolveSession_NewUser(t *testing.T) {
	db := testutil.NewDB(t)

	s := ResolveSession(db, tools.AuthUser{ID: uuid.NewString()})

	assert.Nil(t, s.Profile)
	assert.Empty(t, s.Roles)
	assert.NotNil(t, s.Roles)
	assert.Empty(t, s.PortalRoles)
	assert.False(t, s.IsAdmin)
	assert.False(t, s.IsBusinessOwner)
	assert.Zero(t, s.ReferralCount)
}

func TestResolveSession_NoDatabase(t *testing.T) {
	s := ResolveSession(nil, tools.AuthUser{ID: "u1"})
	assert.Equal(t, "u1", s.User.ID)
	assert.False(t, s.HasRole(models.ROLE_ADMIN))
}

func TestSession_HasRole(t *testing.T) {
	cases := []struct {
		name    string
		session Session
		role    string
		want    bool
	}{
		{"user roles table", Session{Roles: []string{"editor"}}, "editor", true},
		{"portal roles table", Session{PortalRoles: []string{"editor"}}, "editor", true},
		{"neither table", Session{Roles: []string{"member"}}, "editor", false},
		{"admin flag", Session{IsAdmin: true}, models.ROLE_ADMIN, true},
		{"admin flag is not other roles", Session{IsAdmin: true}, "editor", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.session.HasRole(tc.role))
		})
	}
}

func TestTokenVerifier_Local(t *testing.T) {
	v := NewTokenVerifier(testutil.JWTSecret, nil)

	user, err := v.Verify(context.Background(), testutil.SignToken(t, testutil.JWTSecret, "u1", "a@b.co"))
	require.NoError(t, err)
	assert.Equal(t, tools.AuthUser{ID: "u1", Email: "a@b.co", Role: "authenticated"}, user)

	_, err = v.Verify(context.Background(), testutil.SignToken(t, "other-secret", "u1", "a@b.co"))
	assert.Error(t, err)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenVerifier_RejectsExpiredAndSubjectless(t *testing.T) {
	v := NewTokenVerifier(testutil.JWTSecret, nil)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testutil.JWTSecret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.Error(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testutil.JWTSecret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), noSub)
	assert.Error(t, err)
}

func TestTokenVerifier_Remote(t *testing.T) {
	auth := new(testutil.MockAuthClient)
	auth.On("GetUser", mock.Anything, "good").Return(&tools.AuthUser{ID: "u2", Email: "r@b.co"}, nil)
	auth.On("GetUser", mock.Anything, "bad").Return(nil, &tools.APIError{Service: "auth", Status: 401, Message: "invalid JWT"})

	v := NewTokenVerifier("", auth)
	user, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)

	_, err = v.Verify(context.Background(), "bad")
	assert.Error(t, err)

	_, err = NewTokenVerifier("", nil).Verify(context.Background(), "good")
	assert.True(t, errors.Is(err, tools.ErrNotConfigured))
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t)
	e.r.GET("/api/auth/session", AuthRequired(), CurrentSession)
	id, token := e.signIn(t, "member@fuse.vip")

	w := e.do(t, http.MethodGet, "/api/auth/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/api/auth/session", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/api/auth/session", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	s := decode[Session](t, w)
	assert.Equal(t, id, s.User.ID)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "member@fuse.vip", s.Profile.Email)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoadSession_Anonymous(t *testing.T) {
	e := newTestEnv(t)
	e.r.GET("/whoami", LoadSession(), func(c *gin.Context) {
		s, ok := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"signed_in": ok, "id": s.User.ID})
	})
	id, token := e.signIn(t, "member@fuse.vip")

	w := e.do(t, http.MethodGet, "/whoami", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["signed_in"])

	w = e.do(t, http.MethodGet, "/whoami", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[map[string]any](t, w)["id"])
}
