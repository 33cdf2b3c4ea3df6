package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddlewareFixtures(t *testing.T) (*AuthMiddleware, *entity.User, string) {
	t.Helper()

	cfg := &config.Config{
		JWT: &config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			Issuer:            "identity-test",
			Audience:          "identity-test-clients",
			ExpirationMinutes: 5,
		},
	}
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	user := &entity.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     entity.RoleUser,
	}
	token, err := tokenSvc.Issue(user)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc), user, token
}

func invokeWithAuthHeader(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true

		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return c, rec, reached
}

func TestAuthMiddleware_Authenticate_ValidToken(t *testing.T) {
	mw, user, token := newAuthMiddlewareFixtures(t)

	c, rec, reached := invokeWithAuthHeader(t, mw.Authenticate, "Bearer "+token)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, c.Get(ContextKeyUserID))
	assert.Equal(t, user.Username, c.Get(ContextKeyUsername))
	assert.Equal(t, entity.RoleUser, c.Get(ContextKeyRole))
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	mw, _, _ := newAuthMiddlewareFixtures(t)

	_, rec, reached := invokeWithAuthHeader(t, mw.Authenticate, "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TOKEN")
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	mw, _, token := newAuthMiddlewareFixtures(t)

	_, rec, reached := invokeWithAuthHeader(t, mw.Authenticate, token)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_TamperedToken(t *testing.T) {
	mw, _, token := newAuthMiddlewareFixtures(t)

	_, rec, reached := invokeWithAuthHeader(t, mw.Authenticate, "Bearer "+token+"x")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddleware_RequireRole_AllowsMatchingRole(t *testing.T) {
	mw, _, _ := newAuthMiddlewareFixtures(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRole, entity.RoleAdmin)

	handler := mw.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_RequireRole_RejectsOtherRole(t *testing.T) {
	mw, _, _ := newAuthMiddlewareFixtures(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRole, entity.RoleUser)

	handler := mw.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestAuthMiddleware_RequireRole_RejectsMissingRole(t *testing.T) {
	mw, _, _ := newAuthMiddlewareFixtures(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
