package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/config"
	"github.com/storefront/backend/internal/handlers"
	"github.com/storefront/backend/internal/hash"
	"github.com/storefront/backend/internal/models"
	"github.com/storefront/backend/internal/service/token"
	httpserver "github.com/storefront/backend/internal/transport/http"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	deps := &httpserver.Deps{
		DB:          db,
		Tokens:      tokens,
		AuthHandler: &handlers.AuthHandler{DB: db, Tokens: tokens},
		UserHandler: &handlers.UserHandler{DB: db},
		ProductHandler: &handlers.ProductHandler{
			DB:    db,
			Index: "products",
		},
		OrderHandler: &handlers.OrderHandler{
			DB:           db,
			ReturnWindow: 15 * time.Minute,
		},
	}

	e := echo.New()
	httpserver.Register(e, deps)

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createUser(name, email, password string, isAdmin bool) models.User {
	env.T.Helper()

	hashed, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) login(email, password string) []*http.Cookie {
	env.T.Helper()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/users/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.AccessToken)

	return []*http.Cookie{
		{Name: "accessToken", Value: resp.AccessToken, Path: "/"},
		{Name: "refreshToken", Value: resp.RefreshToken, Path: "/"},
	}
}

func (env *testEnv) loginUser() []*http.Cookie {
	env.T.Helper()
	env.createUser("Test User", "user@example.com", "password", false)
	return env.login("user@example.com", "password")
}

func (env *testEnv) loginAdmin() []*http.Cookie {
	env.T.Helper()
	env.createUser("Test Admin", "admin@example.com", "password", true)
	return env.login("admin@example.com", "password")
}

func (env *testEnv) createProduct(name string, price float64, stock int) models.Product {
	env.T.Helper()

	prod := models.Product{
		Name:         name,
		Description:  "test description",
		Price:        price,
		CountInStock: stock,
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}

func orderItemPayload(p models.Product, qty int) map[string]any {
	return map[string]any{
		"product_id": p.ID,
		"name":       p.Name,
		"qty":        qty,
		"price":      p.Price,
		"image":      p.Image,
	}
}

func orderPayload(items []map[string]any, paymentMethod string, totals ...float64) map[string]any {
	payload := map[string]any{
		"order_items":      items,
		"ship_address":     "1 Main St",
		"ship_city":        "Springfield",
		"ship_postal_code": "12345",
		"ship_country":     "USA",
		"payment_method":   paymentMethod,
	}
	if len(totals) == 4 {
		payload["items_price"] = totals[0]
		payload["tax_price"] = totals[1]
		payload["shipping_price"] = totals[2]
		payload["total_price"] = totals[3]
	}
	return payload
}

func fetchOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("OrderItems").First(&order, id).Error)
	return order
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}
