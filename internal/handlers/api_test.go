package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/tokoku/internal/config"
	"github.com/example/tokoku/internal/database"
	"github.com/example/tokoku/internal/models"
	"github.com/example/tokoku/internal/routes"
	"github.com/example/tokoku/internal/utils"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppPort:      "0",
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}

	app := fiber.New()
	routes.Register(app, db, cfg)
	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:   "Test " + role,
		Email:  role + "-" + uuid.NewString() + "@example.com",
		Role:   role,
		Status: models.UserActive,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, role, cfg.TokenExpires)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, payload := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Budi",
		"email":    "budi@example.com",
		"password": "rahasia123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, payload["token"])

	user := payload["user"].(map[string]interface{})
	assert.Equal(t, models.RoleCustomer, user["role"])

	// duplicate email
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Budi",
		"email":    "budi@example.com",
		"password": "rahasia123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, payload = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "budi@example.com",
		"password": "rahasia123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload["token"])

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "budi@example.com",
		"password": "salah",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	app, db, cfg := setupApp(t)

	_, customerToken := createUser(t, db, cfg, models.RoleCustomer)
	_, courierToken := createUser(t, db, cfg, models.RoleCourier)

	// no token
	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// customer cannot reach the admin portal
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/admin/stats", customerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// courier cannot reach the admin portal either
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/admin/orders", courierToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// customer cannot reach the courier portal
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/kurir/deliveries", customerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// courier can
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/kurir/deliveries", courierToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFulfillmentFlowOverHTTP(t *testing.T) {
	app, db, cfg := setupApp(t)

	_, adminToken := createUser(t, db, cfg, models.RoleAdmin)
	courier, courierToken := createUser(t, db, cfg, models.RoleCourier)
	_, customerToken := createUser(t, db, cfg, models.RoleCustomer)

	// admin creates a product
	resp, payload := doJSON(t, app, fiber.MethodPost, "/api/admin/products", adminToken, fiber.Map{
		"name":  "Kaos Polos",
		"price": 10000,
		"stock": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	productID := payload["data"].(map[string]interface{})["id"].(string)

	// customer places a COD order
	resp, payload = doJSON(t, app, fiber.MethodPost, "/api/orders", customerToken, fiber.Map{
		"items": []fiber.Map{
			{"product_id": productID, "quantity": 2, "unit_price": 10000},
		},
		"total_price":      20000,
		"shipping_address": "Jl. Merdeka No. 1, Jakarta",
		"payment_method":   "cod",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := payload["data"].(map[string]interface{})
	orderID := data["id"].(string)
	assert.Equal(t, "menunggu", data["status"])

	var delivery models.Delivery
	require.NoError(t, db.First(&delivery, "order_id = ?", orderID).Error)

	// admin assigns the courier
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/admin/deliveries/assign", adminToken, fiber.Map{
		"delivery_id": delivery.ID.String(),
		"courier_id":  courier.ID.String(),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// courier sees the delivery in the active list
	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/kurir/deliveries", courierToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, payload["data"].([]interface{}), 1)

	// courier advances the delivery to completion
	for _, status := range []string{"diambil", "dalam_perjalanan", "terkirim"} {
		resp, _ = doJSON(t, app, fiber.MethodPut, "/api/kurir/deliveries/"+delivery.ID.String(),
			courierToken, fiber.Map{"status": status})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, status)
	}

	// delivered orders leave the active list and appear in history
	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/kurir/deliveries", courierToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["data"])

	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/kurir/history", courierToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)

	// customer sees the completed aggregate
	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/orders/"+orderID, customerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	detail := payload["data"].(map[string]interface{})
	assert.Equal(t, "selesai", detail["status"])
	assert.Equal(t, "berhasil", detail["payment"].(map[string]interface{})["status"])
	assert.Equal(t, "terkirim", detail["delivery"].(map[string]interface{})["status"])

	// admin dashboard counts the revenue
	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(20000), stats["revenue"])
}

func TestAssignCourierValidationOverHTTP(t *testing.T) {
	app, db, cfg := setupApp(t)

	_, adminToken := createUser(t, db, cfg, models.RoleAdmin)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/admin/deliveries/assign", adminToken, fiber.Map{
		"delivery_id": uuid.NewString(),
		"courier_id":  "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/admin/deliveries/assign", adminToken, fiber.Map{
		"delivery_id": uuid.NewString(),
		"courier_id":  uuid.NewString(),
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCustomerCannotReadForeignOrder(t *testing.T) {
	app, db, cfg := setupApp(t)

	_, ownerToken := createUser(t, db, cfg, models.RoleCustomer)
	_, otherToken := createUser(t, db, cfg, models.RoleCustomer)

	product := models.Product{Name: "Kaos Polos", Price: 10000, Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	resp, payload := doJSON(t, app, fiber.MethodPost, "/api/orders", ownerToken, fiber.Map{
		"items": []fiber.Map{
			{"product_id": product.ID.String(), "quantity": 1, "unit_price": 10000},
		},
		"total_price":      10000,
		"shipping_address": "Jl. Merdeka No. 1",
		"payment_method":   "transfer",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := payload["data"].(map[string]interface{})["id"].(string)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/orders/"+orderID, otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/orders/"+orderID, ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
