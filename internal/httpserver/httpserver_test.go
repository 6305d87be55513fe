package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("handler-test-secret")

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	store := repo.New(db)
	bus := events.NewBus(events.NewHub(), nil)
	cartSvc := &service.CartService{Repo: store, Bus: bus}

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		Auth: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:          store,
				JWTSecret:     testSecret,
				AccessTTL:     15 * time.Minute,
				RefreshSecret: []byte("handler-test-refresh-secret"),
				RefreshTTL:    7 * 24 * time.Hour,
			},
		},
		Catalog:  &CatalogHTTP{Svc: &service.CatalogService{Repo: store}},
		Cart:     &CartHTTP{Svc: cartSvc},
		Checkout: &CheckoutHTTP{Svc: &service.CheckoutService{Repo: store, Cart: cartSvc, Bus: bus}},
	}
}

func (env *testEnv) createProduct(name string, price int64) *models.Product {
	env.T.Helper()
	cat := &models.Category{Name: name + " category", Active: true}
	require.NoError(env.T, env.DB.Create(cat).Error)
	product := &models.Product{
		Name:       name,
		CategoryID: cat.ID,
		Price:      decimal.NewFromInt(price),
		Active:     true,
	}
	require.NoError(env.T, env.DB.Create(product).Error)
	return product
}

// doJSONRequest builds an echo context the way the middleware chain would:
// userID lands under "user_id" when non-nil.
func (env *testEnv) doJSONRequest(method, path string, body any, userID uuid.UUID) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set("user_id", userID.String())
	}
	return rec, c
}
