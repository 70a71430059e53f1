package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuwidodo/belanja-backend/api/middleware"
	pkgauth "github.com/bayuwidodo/belanja-backend/pkg/auth"
	"github.com/bayuwidodo/belanja-backend/pkg/config"
)

var jwtCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "belanja-test",
	ExpirationMinutes: 15,
}

func mintToken(t *testing.T, customerID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		CustomerID: customerID,
		Email:      "dewi@example.com",
		Name:       "Dewi Lestari",
	})
	require.NoError(t, err)
	return token
}

func TestAuthSeedsCustomerContext(t *testing.T) {
	customerID := uuid.New()
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.CustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, customerID))
	rec := httptest.NewRecorder()

	middleware.Auth(jwtCfg, nil)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, customerID.String(), seen)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	middleware.Auth(jwtCfg, nil)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	middleware.Auth(jwtCfg, nil)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsWrongKey(t *testing.T) {
	otherCfg := jwtCfg
	otherCfg.Secret = "other-secret"
	token, err := pkgauth.MintAccessToken(otherCfg, time.Now(), pkgauth.AccessTokenPayload{
		CustomerID: uuid.New(),
		Email:      "dewi@example.com",
		Name:       "Dewi Lestari",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware.Auth(jwtCfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
