package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/models"
)

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	prod := env.createProduct("Widget", 9.99, 3)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, prod.ID, resp.ID)
	require.Equal(t, "Widget", resp.Name)
	require.Equal(t, 9.99, resp.Price)
	require.Equal(t, 3, resp.CountInStock)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 15; i++ {
		env.createProduct("Widget", 10, 1)
	}

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?page=2&size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Page       int   `json:"page"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
			HasPrev    bool  `json:"has_prev"`
			HasNext    bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	require.Equal(t, int64(15), resp.Meta.Total)
	require.Equal(t, int64(2), resp.Meta.TotalPages)
	require.True(t, resp.Meta.HasPrev)
	require.False(t, resp.Meta.HasNext)
}

func TestGetProductsKeywordFilter(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct("Red Widget", 10, 1)
	env.createProduct("Blue Widget", 10, 1)
	env.createProduct("Gadget", 10, 1)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?keyword=Widget", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
}

func TestGetTopProducts(t *testing.T) {
	env := newTestEnv(t)
	low := env.createProduct("Low", 10, 1)
	high := env.createProduct("High", 10, 1)
	require.NoError(t, env.DB.Model(&low).Update("rating", 2.0).Error)
	require.NoError(t, env.DB.Model(&high).Update("rating", 4.5).Error)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products/top", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.Equal(t, "High", resp[0].Name)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name":           "New Widget",
		"brand":          "Acme",
		"category":       "Tools",
		"description":    "a widget",
		"price":          19.99,
		"count_in_stock": 7,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	require.Equal(t, "New Widget", resp.Name)
	require.Equal(t, 7, resp.CountInStock)
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginUser()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Nope",
	}, cookies...)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()
	env.createProduct("Old Name", 10, 1)

	rec := env.doJSONRequest(http.MethodPut, "/api/v1/products/1", map[string]any{
		"name":           "New Name",
		"description":    "updated",
		"price":          12.5,
		"count_in_stock": 4,
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "New Name", resp.Name)
	require.Equal(t, 12.5, resp.Price)
	require.Equal(t, 4, resp.CountInStock)
}

func TestUpdateProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()

	rec := env.doJSONRequest(http.MethodPut, "/api/v1/products/42", map[string]any{
		"name": "Ghost",
	}, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()
	env.createProduct("Doomed", 10, 1)

	rec := env.doJSONRequest(http.MethodDelete, "/api/v1/products/1", nil, cookies...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/products/1", nil, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginUser()
	env.createProduct("Widget", 10, 1)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating":  4,
		"comment": "pretty good",
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, env.DB.Preload("Reviews").First(&prod, 1).Error)
	require.Equal(t, 1, prod.NumReviews)
	require.Equal(t, 4.0, prod.Rating)
	require.Len(t, prod.Reviews, 1)
	require.Equal(t, "Test User", prod.Reviews[0].Name)
}

func TestCreateReviewTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginUser()
	env.createProduct("Widget", 10, 1)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating": 4,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating": 5,
	}, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReviewAveragesRating(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct("Widget", 10, 1)

	firstCookies := env.loginUser()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating": 2,
	}, firstCookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	env.createUser("Second", "second@example.com", "password", false)
	secondCookies := env.login("second@example.com", "password")
	rec = env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating": 5,
	}, secondCookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, env.DB.First(&prod, 1).Error)
	require.Equal(t, 2, prod.NumReviews)
	require.Equal(t, 3.5, prod.Rating)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginUser()
	env.createProduct("Widget", 10, 1)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products/1/reviews", map[string]any{
		"rating": 9,
	}, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
