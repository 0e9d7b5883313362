package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/models"
)

func TestGetUsersAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginUser()

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/users", nil, cookies...)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUsers(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()
	env.createUser("A", "a@example.com", "password", false)
	env.createUser("B", "b@example.com", "password", false)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/users", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.User `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(3), resp.Meta.Total)
	require.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/users", map[string]any{
		"name":     "Second Admin",
		"email":    "admin2@example.com",
		"password": "password",
		"is_admin": true,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "admin2@example.com").First(&user).Error)
	require.True(t, user.IsAdmin)
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()
	target := env.createUser("Target", "target@example.com", "password", false)

	rec := env.doJSONRequest(http.MethodPut, "/api/v1/users/2", map[string]any{
		"name":     "Promoted",
		"is_admin": true,
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, env.DB.First(&user, target.ID).Error)
	require.Equal(t, "Promoted", user.Name)
	require.True(t, user.IsAdmin)
	require.Equal(t, "target@example.com", user.Email)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()
	target := env.createUser("Target", "target@example.com", "password", false)

	rec := env.doJSONRequest(http.MethodDelete, "/api/v1/users/2", nil, cookies...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", target.ID).Count(&count).Error)
	require.Zero(t, count)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/users/2", nil, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loginAdmin()

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/users/42", nil, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
