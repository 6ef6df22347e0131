package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) Publish(event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type testEnv struct {
	app        *fiber.App
	store      repository.Store
	events     *recordingPublisher
	uploadDir  string
	userToken  string
	adminToken string
	user       *model.User
	category   *model.Category
	product    *model.Product
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ctx := context.Background()
	store := repository.NewStore(db)
	tokens := jwt.NewManager("test-secret", time.Hour)
	events := &recordingPublisher{}
	log := zap.NewNop()
	uploadDir := t.TempDir()

	app := fiber.New()
	handler.RegisterRoutes(app, handler.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(store.Users(), tokens), log),
		Product:     handler.NewProductHandler(service.NewCatalogService(store), events, log, uploadDir),
		Category:    handler.NewCategoryHandler(service.NewCategoryService(store), log),
		Transaction: handler.NewTransactionHandler(service.NewCheckoutService(store), events, log),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(store), log),
	}, middleware.RequireAuth(tokens, store.Users()))

	env := &testEnv{app: app, store: store, events: events, uploadDir: uploadDir}

	env.user = &model.User{Name: "Budi Santoso", Email: "user1@example.com", Role: model.RoleUser}
	require.NoError(t, env.user.SetPassword("password"))
	require.NoError(t, store.Users().Create(ctx, env.user))
	admin := &model.User{Name: "Administrator", Email: "admin@example.com", Role: model.RoleAdmin}
	require.NoError(t, admin.SetPassword("admin123"))
	require.NoError(t, store.Users().Create(ctx, admin))

	env.userToken, err = tokens.GenerateToken(env.user.ID, env.user.Email, env.user.Name, env.user.Role)
	require.NoError(t, err)
	env.adminToken, err = tokens.GenerateToken(admin.ID, admin.Email, admin.Name, admin.Role)
	require.NoError(t, err)

	env.category = &model.Category{Name: "Elektronik"}
	require.NoError(t, store.Categories().Create(ctx, env.category))
	env.product = &model.Product{Name: "Mouse Wireless", Price: decimal.NewFromInt(100), Stock: 5, CategoryID: env.category.ID}
	require.NoError(t, store.Products().Create(ctx, env.product))

	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
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

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAuthRoutes(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "user1@example.com", "password": "password"})
	require.Equal(t, 200, status, body)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	status, body = env.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "user1@example.com", "password": "wrong"})
	assert.Equal(t, 401, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{"name": "Siti", "email": "siti@example.com", "password": "rahasia"})
	assert.Equal(t, 201, status)

	status, _ = env.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{"name": "Siti", "email": "siti@example.com", "password": "rahasia"})
	assert.Equal(t, 400, status)
}

func TestProductRoutes_RequireAuth(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "GET", "/api/v1/products", "", nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.do(t, "GET", "/api/v1/products", "not-a-token", nil)
	assert.Equal(t, 401, status)
}

func TestProductRoutes_List(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "GET", "/api/v1/products?page=1&limit=10&sortBy=price&sortOrder=asc", env.userToken, nil)
	require.Equal(t, 200, status, body)
	assert.Equal(t, true, body["success"])
	products := body["data"].([]interface{})
	require.Len(t, products, 1)
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["totalItems"])
	assert.EqualValues(t, 1, meta["totalPages"])
	assert.EqualValues(t, 1, meta["currentPage"])

	status, _ = env.do(t, "GET", "/api/v1/products?sortBy=password", env.userToken, nil)
	assert.Equal(t, 400, status)

	status, _ = env.do(t, "GET", "/api/v1/products?limit=1000", env.userToken, nil)
	assert.Equal(t, 400, status)
}

func TestProductRoutes_AdminWrites(t *testing.T) {
	env := setup(t)
	create := fiber.Map{"name": "Keyboard", "price": "300", "stock": 7, "categoryId": env.category.ID}

	status, _ := env.do(t, "POST", "/api/v1/products", env.userToken, create)
	assert.Equal(t, 403, status)

	status, body := env.do(t, "POST", "/api/v1/products", env.adminToken, create)
	require.Equal(t, 201, status, body)
	id := body["data"].(map[string]interface{})["id"]
	assert.Equal(t, 1, env.events.count())

	path := fmt.Sprintf("/api/v1/products/%v", id)
	status, body = env.do(t, "PUT", path, env.adminToken, fiber.Map{"stock": 9})
	require.Equal(t, 200, status, body)
	assert.EqualValues(t, 9, body["data"].(map[string]interface{})["stock"])

	status, _ = env.do(t, "DELETE", path, env.adminToken, nil)
	assert.Equal(t, 200, status)

	status, _ = env.do(t, "GET", path, env.userToken, nil)
	assert.Equal(t, 404, status)
	status, _ = env.do(t, "DELETE", path, env.adminToken, nil)
	assert.Equal(t, 404, status)

	status, _ = env.do(t, "POST", "/api/v1/products", env.adminToken,
		fiber.Map{"name": "Yatim", "price": "1", "stock": 1, "categoryId": 999})
	assert.Equal(t, 400, status)

	status, _ = env.do(t, "GET", "/api/v1/products/abc", env.userToken, nil)
	assert.Equal(t, 400, status)
}

func TestProductRoutes_SearchAndStats(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "GET", "/api/v1/products/search?name=mouse&max_price=150", env.userToken, nil)
	require.Equal(t, 200, status, body)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = env.do(t, "GET", "/api/v1/products/search?max_price=abc", env.userToken, nil)
	assert.Equal(t, 400, status)

	status, body = env.do(t, "GET", "/api/v1/products/stats", env.userToken, nil)
	require.Equal(t, 200, status, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["overview"].(map[string]interface{})["count"])
	assert.Len(t, data["byCategory"].([]interface{}), 1)
}

func TestTransactionRoutes(t *testing.T) {
	env := setup(t)
	checkout := fiber.Map{"items": []fiber.Map{{"productId": env.product.ID, "quantity": 2}}}

	status, body := env.do(t, "POST", "/api/v1/transactions/checkout", env.userToken, checkout)
	require.Equal(t, 201, status, body)
	tx := body["data"].(map[string]interface{})
	assert.Equal(t, "200", tx["total"])
	assert.EqualValues(t, env.user.ID, tx["userId"])
	assert.Equal(t, 1, env.events.count())

	path := fmt.Sprintf("/api/v1/transactions/%v", tx["id"])
	status, _ = env.do(t, "GET", path, env.userToken, nil)
	assert.Equal(t, 200, status)
	status, _ = env.do(t, "GET", path, env.adminToken, nil)
	assert.Equal(t, 200, status)

	// the listing is always scoped to the caller
	status, body = env.do(t, "GET", "/api/v1/transactions", env.adminToken, nil)
	require.Equal(t, 200, status)
	assert.Empty(t, body["data"])

	status, body = env.do(t, "GET", "/api/v1/transactions", env.userToken, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, body = env.do(t, "POST", "/api/v1/transactions/checkout", env.userToken,
		fiber.Map{"items": []fiber.Map{{"productId": env.product.ID, "quantity": 10}}})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "insufficient stock")

	status, _ = env.do(t, "POST", "/api/v1/transactions/checkout", env.userToken, fiber.Map{"items": []fiber.Map{}})
	assert.Equal(t, 400, status)

	status, _ = env.do(t, "POST", "/api/v1/transactions/checkout", env.userToken,
		fiber.Map{"items": []fiber.Map{{"productId": 999, "quantity": 1}}})
	assert.Equal(t, 404, status)

	status, _ = env.do(t, "GET", "/api/v1/transactions/999", env.userToken, nil)
	assert.Equal(t, 404, status)
}

func TestTransactionRoutes_ForeignTransactionForbidden(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	other := &model.User{Name: "Siti Aminah", Email: "user2@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, env.store.Users().Create(ctx, other))
	tx, err := service.NewCheckoutService(env.store).Checkout(ctx, &model.CheckoutRequest{
		UserID: other.ID,
		Items:  []model.CheckoutItem{{ProductID: env.product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	status, _ := env.do(t, "GET", fmt.Sprintf("/api/v1/transactions/%d", tx.ID), env.userToken, nil)
	assert.Equal(t, 403, status)
}

func TestDashboardRoutes(t *testing.T) {
	env := setup(t)

	status, _ := env.do(t, "GET", "/api/v1/dashboard/overview", env.userToken, nil)
	assert.Equal(t, 403, status)

	status, body := env.do(t, "GET", "/api/v1/dashboard/overview", env.adminToken, nil)
	require.Equal(t, 200, status, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["activeProducts"])
	assert.EqualValues(t, 1, data["lowStockCount"])

	status, body = env.do(t, "GET", "/api/v1/dashboard/sales?days=30", env.adminToken, nil)
	require.Equal(t, 200, status, body)
	assert.EqualValues(t, 30, body["period"])

	status, _ = env.do(t, "GET", "/api/v1/dashboard/sales?days=0", env.adminToken, nil)
	assert.Equal(t, 400, status)
}

func TestCategoryRoutes(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "GET", "/api/v1/categories", "", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = env.do(t, "POST", "/api/v1/categories", env.userToken, fiber.Map{"name": "Fashion"})
	assert.Equal(t, 403, status)

	status, body = env.do(t, "POST", "/api/v1/categories", env.adminToken, fiber.Map{"name": "Fashion"})
	require.Equal(t, 201, status, body)

	status, _ = env.do(t, "POST", "/api/v1/categories", env.adminToken, fiber.Map{"name": "Fashion"})
	assert.Equal(t, 400, status)

	status, body = env.do(t, "GET", "/api/v1/categories?name=fash", "", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = env.do(t, "PUT", fmt.Sprintf("/api/v1/categories/%d", env.category.ID), env.adminToken, fiber.Map{"name": "Gadget"})
	assert.Equal(t, 200, status)

	status, _ = env.do(t, "GET", "/api/v1/categories/999", "", nil)
	assert.Equal(t, 404, status)
}

func (e *testEnv) postImageForm(t *testing.T, method, path string, fields map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	file, err := form.CreateFormFile("image", "webcam.PNG")
	require.NoError(t, err)
	_, err = file.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.adminToken)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (e *testEnv) uploadedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(e.uploadDir)
	require.NoError(t, err)
	return len(entries)
}

func TestProductRoutes_MultipartUpload(t *testing.T) {
	env := setup(t)

	status, body := env.postImageForm(t, "POST", "/api/v1/products", map[string]string{
		"name":       "Webcam",
		"price":      "450000",
		"stock":      "3",
		"categoryId": fmt.Sprint(env.category.ID),
	})
	require.Equal(t, 201, status, body)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Webcam", data["name"])
	image, _ := data["image"].(string)
	assert.True(t, strings.HasPrefix(image, "/public/uploads/"), image)
	assert.True(t, strings.HasSuffix(image, ".png"), image)
	assert.Equal(t, 1, env.uploadedFiles(t))
}

func TestProductRoutes_RejectedWriteLeavesNoUpload(t *testing.T) {
	env := setup(t)

	status, _ := env.postImageForm(t, "POST", "/api/v1/products", map[string]string{
		"name":       "Webcam",
		"price":      "0",
		"stock":      "3",
		"categoryId": "9999",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, 0, env.uploadedFiles(t))

	status, _ = env.postImageForm(t, "POST", "/api/v1/products", map[string]string{
		"name":       "Webcam",
		"price":      "10",
		"stock":      "3",
		"categoryId": "9999",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, 0, env.uploadedFiles(t))

	status, _ = env.postImageForm(t, "PUT", "/api/v1/products/999", map[string]string{"name": "Ghost"})
	assert.Equal(t, 404, status)
	assert.Equal(t, 0, env.uploadedFiles(t))
}
