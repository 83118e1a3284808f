package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"taplink-service/internal/middleware"
	"taplink-service/pkg/config"
	"taplink-service/pkg/jwtutil"
)

func setupProtected(t *testing.T, svc *jwtutil.JWT) *echo.Echo {
	t.Helper()
	e := echo.New()
	protected := e.Group("/api")
	protected.Use(middleware.Auth(svc))
	protected.GET("/whoami", func(c echo.Context) error {
		claims, ok := middleware.ClaimsFrom(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"empresa_id": claims.EmpresaID})
	})
	return e
}

func TestAuthMissingToken(t *testing.T) {
	svc := jwtutil.New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := setupProtected(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	svc := jwtutil.New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := setupProtected(t, svc)

	for _, header := range []string{"garbage", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthBadSignature(t *testing.T) {
	svc := jwtutil.New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	other := jwtutil.New(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1})
	e := setupProtected(t, svc)

	token, err := other.Mint("1", "user@acme.test", "admin", 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidTokenReachesHandler(t *testing.T) {
	svc := jwtutil.New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := setupProtected(t, svc)

	token, err := svc.Mint("1", "user@acme.test", "admin", 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"empresa_id": 7}`, rec.Body.String())
}
