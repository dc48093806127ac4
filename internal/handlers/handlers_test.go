package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/cache"
	"github.com/Skotchmaster/product_api/internal/handlers"
	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/logging"
	authmw "github.com/Skotchmaster/product_api/internal/middleware/auth"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/token"
	"github.com/Skotchmaster/product_api/internal/transport"
	httpserver "github.com/Skotchmaster/product_api/internal/transport/http"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	logger := logging.NewWithOutput(io.Discard, "error")
	store := cache.NewMemory()
	tokens := &token.Service{Secret: []byte("test-secret"), TTL: 900 * time.Second}

	authService := &service.AuthService{DB: db, Tokens: tokens, Log: logger}
	userService := &service.UserService{DB: db, Cache: store, Log: logger, Masking: transport.MaskOmit}
	productService := &service.ProductService{DB: db, Cache: store, Log: logger}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Auth: authService},
		UserHandler:    &handlers.UserHandler{Users: userService},
		ProductHandler: &handlers.ProductHandler{Products: productService},
		SearchHandler:  &handlers.SearchHandler{},
		AuthMW:         &authmw.Middleware{Auth: authService},
	})

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens}
}

func (env *testEnv) seedUser(email, role string) *models.User {
	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)

	user := &models.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) tokenFor(u *models.User) string {
	raw, _, err := env.Tokens.Issue(models.Principal{ID: u.ID, Role: u.Role})
	require.NoError(env.T, err)
	return raw
}

func (env *testEnv) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, string, json.RawMessage) {
	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Success, env.Message, env.Data
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("jane@example.com", models.RoleUser)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	success, _, data := decodeEnvelope(t, rec)
	require.True(t, success)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, int64(900), result.ExpiresIn)
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("jane@example.com", models.RoleUser)

	wrongPw := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	})
	unknown := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.JSONEq(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestRegisterConflict(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"first_name": "Jane", "last_name": "Doe",
		"email": "jane@example.com", "password": "password",
	}

	first := env.do(http.MethodPost, "/api/v1/users", "", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.do(http.MethodPost, "/api/v1/users", "", payload)
	require.Equal(t, http.StatusConflict, second.Code)

	success, _, _ := decodeEnvelope(t, second)
	require.False(t, success)
}

func TestAnonymousProductAccess(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser("owner@example.com", models.RoleUser)
	product := &models.Product{UserID: owner.ID, Title: "Widget"}
	require.NoError(t, env.DB.Create(product).Error)

	// anonymous read is fine
	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// anonymous create is not
	rec = env.do(http.MethodPost, "/api/v1/products", "", map[string]string{"title": "X"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductForbiddenForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser("owner@example.com", models.RoleUser)
	other := env.seedUser("other@example.com", models.RoleUser)
	product := &models.Product{UserID: owner.ID, Title: "Widget"}
	require.NoError(t, env.DB.Create(product).Error)

	rec := env.do(http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", product.ID), env.tokenFor(other), map[string]string{"title": "X"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), env.tokenFor(other), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserProjectionOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	target := env.seedUser("target@example.com", models.RoleUser)
	viewer := env.seedUser("viewer@example.com", models.RoleUser)

	// non-self viewer: no email/role keys at all
	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", target.ID), env.tokenFor(viewer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.NotContains(t, fields, "email")
	require.NotContains(t, fields, "role")

	// the same viewer fetching themselves sees both
	rec = env.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", viewer.ID), env.tokenFor(viewer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "role")
}

func TestSelfDeleteRejectedOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser("admin@example.com", models.RoleAdmin)
	user := env.seedUser("jane@example.com", models.RoleUser)

	for _, u := range []*models.User{admin, user} {
		rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", u.ID), env.tokenFor(u), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		success, message, _ := decodeEnvelope(t, rec)
		require.False(t, success)
		require.Contains(t, message, "cannot delete your own account")
	}
}

func TestStaleTokenAfterUserDeleted(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser("admin@example.com", models.RoleAdmin)
	victim := env.seedUser("victim@example.com", models.RoleUser)

	victimToken := env.tokenFor(victim)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", victim.ID), env.tokenFor(admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the deleted user's still-signed token no longer authenticates
	rec = env.do(http.MethodPost, "/api/v1/products", victimToken, map[string]string{"title": "X"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredAndMalformedTokens(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("jane@example.com", models.RoleUser)

	expired := &token.Service{Secret: []byte("test-secret"), TTL: -time.Minute}
	raw, _, err := expired.Issue(models.Principal{ID: user.ID, Role: user.Role})
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/api/v1/products", raw, map[string]string{"title": "X"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/products", "garbage", map[string]string{"title": "X"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// optional-auth routes also reject broken tokens instead of downgrading
	rec = env.do(http.MethodGet, "/api/v1/products", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchDisabled(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/products/search?q=widget", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFoundMapping(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/products/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
