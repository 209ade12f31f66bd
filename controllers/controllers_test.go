package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	dbpkg "fusevip/db"
	"fusevip/models"
	"fusevip/testutil"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db   *gorm.DB
	deps *Deps
	r    *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	deps := &Deps{Verifier: NewTokenVerifier(testutil.JWTSecret, nil)}

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db), SetDepsToContext(deps))
	return &testEnv{db: db, deps: deps, r: r}
}

// signIn creates a profile and returns its id with a valid access token.
func (e *testEnv) signIn(t *testing.T, email string) (string, string) {
	t.Helper()
	id := uuid.NewString()
	testutil.CreateProfile(t, e.db, id, email)
	return id, testutil.SignToken(t, testutil.JWTSecret, id, email)
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func count(t *testing.T, db *gorm.DB, model any) int {
	t.Helper()
	var n int
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func approvedBusiness(t *testing.T, db *gorm.DB, name, category string) models.Business {
	t.Helper()
	return testutil.CreateBusiness(t, db, models.Business{
		Name:     name,
		Category: category,
		Status:   models.BUSINESS_STATUS_APPROVED,
	})
}

func toolsUser(id string) tools.AuthUser {
	return tools.AuthUser{ID: id}
}
