package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking/internal/model"
	"github.com/cinetick/booking/internal/utils"
)

const testSecret = "test-secret"

// echoHandler responds with the identity the middleware injected.
func echoHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}

func request(t *testing.T, mw echo.MiddlewareFunc, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(echoHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, "user-42", model.RoleUser, time.Minute)
	require.NoError(t, err)

	rec := request(t, JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-42")
	assert.Contains(t, rec.Body.String(), model.RoleUser)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := request(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec := request(t, JWTAuth(testSecret), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token, err := utils.NewAccessToken("other-secret", "user-42", model.RoleUser, time.Minute)
	require.NoError(t, err)

	rec := request(t, JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, "user-42", model.RoleUser, -time.Minute)
	require.NoError(t, err)

	rec := request(t, JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func roleRequest(t *testing.T, mw echo.MiddlewareFunc, role string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	err := mw(echoHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)

	assert.Equal(t, http.StatusOK, roleRequest(t, mw, model.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, roleRequest(t, mw, model.RoleUser).Code)
	assert.Equal(t, http.StatusForbidden, roleRequest(t, mw, "").Code)
}

func TestRequireRoleMultiple(t *testing.T) {
	mw := RequireRole(model.RoleUser, model.RoleAdmin)

	assert.Equal(t, http.StatusOK, roleRequest(t, mw, model.RoleUser).Code)
	assert.Equal(t, http.StatusOK, roleRequest(t, mw, model.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, roleRequest(t, mw, "unknown").Code)
}
