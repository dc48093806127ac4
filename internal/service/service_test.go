package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/cache"
	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/token"
	"github.com/Skotchmaster/product_api/internal/transport"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))
	return db
}

func testLogger() *slog.Logger {
	return logging.NewWithOutput(io.Discard, "error")
}

type testEnv struct {
	DB       *gorm.DB
	Cache    cache.Store
	Auth     *AuthService
	Users    *UserService
	Products *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	store := cache.NewMemory()
	log := testLogger()

	return &testEnv{
		DB:    db,
		Cache: store,
		Auth: &AuthService{
			DB:     db,
			Tokens: &token.Service{Secret: []byte("test-secret"), TTL: 900 * time.Second},
			Log:    log,
		},
		Users: &UserService{
			DB:      db,
			Cache:   store,
			Log:     log,
			Masking: transport.MaskOmit,
		},
		Products: &ProductService{
			DB:    db,
			Cache: store,
			Log:   log,
		},
	}
}

func (env *testEnv) seedUser(t *testing.T, email, role string) *models.User {
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) seedProduct(t *testing.T, ownerID uint, title string, createdAt time.Time) *models.Product {
	product := &models.Product{
		UserID:      ownerID,
		Number:      "N-1",
		Title:       title,
		Description: "test product",
		CreatedAt:   createdAt,
	}
	require.NoError(t, env.DB.Create(product).Error)
	return product
}

func principalOf(u *models.User) *models.Principal {
	return &models.Principal{ID: u.ID, Role: u.Role}
}

func ctxb() context.Context { return context.Background() }
