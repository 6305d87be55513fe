package service

import (
	"testing"
	"time"

	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Hub      *events.Hub
	Cart     *CartService
	Checkout *CheckoutService
	Catalog  *CatalogService
	Auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	store := repo.New(db)
	hub := events.NewHub()
	bus := events.NewBus(hub, nil)

	cart := &CartService{Repo: store, Bus: bus}
	return &testEnv{
		DB:       db,
		Repo:     store,
		Hub:      hub,
		Cart:     cart,
		Checkout: &CheckoutService{Repo: store, Cart: cart, Bus: bus},
		Catalog:  &CatalogService{Repo: store},
		Auth: &AuthService{
			Repo:          store,
			JWTSecret:     []byte("test-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshSecret: []byte("test-refresh-secret"),
			RefreshTTL:    7 * 24 * time.Hour,
		},
	}
}

func (env *testEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name, Active: true}
	require.NoError(t, env.DB.Create(cat).Error)
	return cat
}

func (env *testEnv) createProduct(t *testing.T, name string, price int64, active bool) *models.Product {
	t.Helper()
	cat := env.createCategory(t, name+" category")
	product := &models.Product{
		Name:       name,
		CategoryID: cat.ID,
		Price:      decimal.NewFromInt(price),
		Images:     models.ImageList{"https://img.example/" + name + ".jpg"},
		Active:     active,
	}
	require.NoError(t, env.DB.Create(product).Error)
	return product
}
