// Package testutil holds database, token and client fakes shared by the
// package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	dbpkg "fusevip/db"
	"fusevip/models"
	"fusevip/tools"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

const JWTSecret = "test-jwt-secret"

// NewDB opens a migrated in-memory sqlite database that lives as long as
// the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, dbpkg.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

// SignToken issues an access token shaped like the hosted auth service's.
func SignToken(t *testing.T, secret, userID, email string) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  "authenticated",
		"aud":   "authenticated",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func CreateProfile(t *testing.T, db *gorm.DB, id, email string) models.Profile {
	t.Helper()
	p := models.Profile{ID: id, Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func GrantUserRole(t *testing.T, db *gorm.DB, userID, role string) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserRole{UserID: userID, Role: role}).Error)
}

func GrantPortalRole(t *testing.T, db *gorm.DB, userID, role string) {
	t.Helper()
	require.NoError(t, db.Create(&models.PortalRole{UserID: userID, Role: role}).Error)
}

func CreateBusiness(t *testing.T, db *gorm.DB, b models.Business) models.Business {
	t.Helper()
	if b.Status == "" {
		b.Status = models.BUSINESS_STATUS_PENDING
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

/************************************************
/**** MARK: CLIENT MOCKS ****/
/************************************************/

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) SignUp(ctx context.Context, email, password string) (*tools.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.AuthSession), args.Error(1)
}

func (m *MockAuthClient) SignIn(ctx context.Context, email, password string) (*tools.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.AuthSession), args.Error(1)
}

func (m *MockAuthClient) Refresh(ctx context.Context, refreshToken string) (*tools.AuthSession, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.AuthSession), args.Error(1)
}

func (m *MockAuthClient) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockAuthClient) GetUser(ctx context.Context, accessToken string) (*tools.AuthUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.AuthUser), args.Error(1)
}

func (m *MockAuthClient) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req tools.CheckoutRequest) (*tools.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(stripe.Event), args.Error(1)
}

type MockWalletClient struct {
	mock.Mock
}

func (m *MockWalletClient) CreateSignIn(ctx context.Context, returnURL string) (*tools.WalletConnection, error) {
	args := m.Called(ctx, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.WalletConnection), args.Error(1)
}

func (m *MockWalletClient) PayloadStatus(ctx context.Context, uuid string) (*tools.WalletStatus, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tools.WalletStatus), args.Error(1)
}

type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) XRPUSD(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
