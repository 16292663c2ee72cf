package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bestellboard/bestellboard-api/config"
	"github.com/bestellboard/bestellboard-api/middleware"
	"github.com/bestellboard/bestellboard-api/models"
	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAdminToken = "test-admin-token"

func setupControllerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	services.ResetStreams()
	services.SetImageService(nil)
	services.InitAdminAuthorizer(testAdminToken)

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// createCatalogProduct seeds a product through the catalog service so
// it carries the same cleaned schema a real admin write would.
func createCatalogProduct(t *testing.T, name string, basePrice string, active bool) *models.Product {
	t.Helper()

	product, err := services.UpsertProduct(services.ProductInput{
		Name:      name,
		BasePrice: json.RawMessage(basePrice),
		Active:    &active,
		OptionSchema: json.RawMessage(`{"groups": [
			{"id": "size", "label": "Größe", "values": [
				{"label": "Klein", "price_delta": 0},
				{"label": "Groß", "price_delta": "2.00"}
			]},
			{"id": "extras", "label": "Extras", "selection_mode": "multi", "values": [
				{"label": "Sauce", "price_delta": 0.5},
				{"label": "Käse", "price_delta": 1}
			]}
		]}`),
	})
	assert.NoError(t, err)
	return product
}

func performJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

func TestListProducts(t *testing.T) {
	setupControllerTestDB(t)

	createCatalogProduct(t, "Pizza Margherita", "9.50", true)
	createCatalogProduct(t, "Calzone", "8.00", true)
	createCatalogProduct(t, "Saison-Special", "11.00", false)

	router := setupTestRouter()
	router.GET("/products", ListProducts)

	tests := []struct {
		name      string
		path      string
		wantNames []string
	}{
		{
			name:      "hides inactive products by default",
			path:      "/products",
			wantNames: []string{"Calzone", "Pizza Margherita"},
		},
		{
			name:      "includes inactive products on request",
			path:      "/products?include_inactive=true",
			wantNames: []string{"Calzone", "Pizza Margherita", "Saison-Special"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, http.StatusOK, w.Code)

			response := parseResponse(t, w)
			assert.True(t, response["success"].(bool))

			data := response["data"].([]interface{})
			var names []string
			for _, item := range data {
				names = append(names, item.(map[string]interface{})["name"].(string))
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestUpsertProduct(t *testing.T) {
	setupControllerTestDB(t)

	existing := createCatalogProduct(t, "Pizza Margherita", "9.50", true)

	router := setupTestRouter()
	router.POST("/admin/products", middleware.RequireAdminToken(), UpsertProduct)

	adminHeaders := map[string]string{middleware.AdminTokenHeader: testAdminToken}

	tests := []struct {
		name           string
		headers        map[string]string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:    "creates a new product",
			headers: adminHeaders,
			requestBody: map[string]interface{}{
				"name":       "Calzone",
				"base_price": "8.00",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Calzone", data["name"])
				assert.NotEmpty(t, data["id"])
			},
		},
		{
			name:    "updates an existing product in place",
			headers: adminHeaders,
			requestBody: map[string]interface{}{
				"product_id": existing.ID,
				"name":       "Pizza Margherita",
				"base_price": "10.50",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, existing.ID, data["id"])
			},
		},
		{
			name:    "rejects a missing name",
			headers: adminHeaders,
			requestBody: map[string]interface{}{
				"base_price": "8.00",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_ARGUMENT",
		},
		{
			name:    "rejects a non-numeric base price",
			headers: adminHeaders,
			requestBody: map[string]interface{}{
				"name":       "Calzone",
				"base_price": "acht",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_ARGUMENT",
		},
		{
			name:    "rejects an unknown product id",
			headers: adminHeaders,
			requestBody: map[string]interface{}{
				"product_id": "no-such-product",
				"name":       "Ghost",
				"base_price": "1.00",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "PRODUCT_UNAVAILABLE",
		},
		{
			name:    "rejects a missing admin token",
			headers: nil,
			requestBody: map[string]interface{}{
				"name":       "Calzone",
				"base_price": "8.00",
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "PERMISSION_DENIED",
		},
		{
			name:    "rejects a wrong admin token",
			headers: map[string]string{middleware.AdminTokenHeader: "wrong"},
			requestBody: map[string]interface{}{
				"name":       "Calzone",
				"base_price": "8.00",
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "PERMISSION_DENIED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/admin/products", tt.requestBody, tt.headers)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := parseResponse(t, w)
			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				assert.True(t, response["success"].(bool))
				if tt.checkResponse != nil {
					tt.checkResponse(t, response)
				}
			}
		})
	}
}

func TestUpsertProductWithoutConfiguredToken(t *testing.T) {
	setupControllerTestDB(t)
	services.InitAdminAuthorizer("")

	router := setupTestRouter()
	router.POST("/admin/products", middleware.RequireAdminToken(), UpsertProduct)

	w := performJSON(router, http.MethodPost, "/admin/products", map[string]interface{}{
		"name":       "Calzone",
		"base_price": "8.00",
	}, map[string]string{middleware.AdminTokenHeader: "anything"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "NOT_CONFIGURED", errorData["code"])
}

func TestDeleteProduct(t *testing.T) {
	setupControllerTestDB(t)

	product := createCatalogProduct(t, "Pizza Margherita", "9.50", true)

	router := setupTestRouter()
	router.DELETE("/admin/products/:id", middleware.RequireAdminToken(), DeleteProduct)
	router.GET("/products", ListProducts)

	w := performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/products/%s", product.ID), nil,
		map[string]string{middleware.AdminTokenHeader: testAdminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/products?include_inactive=true", nil, nil)
	response := parseResponse(t, w)
	assert.Empty(t, response["data"])
}

func TestDeleteProductUnknownID(t *testing.T) {
	setupControllerTestDB(t)

	router := setupTestRouter()
	router.DELETE("/admin/products/:id", middleware.RequireAdminToken(), DeleteProduct)

	w := performJSON(router, http.MethodDelete, "/admin/products/no-such-product", nil,
		map[string]string{middleware.AdminTokenHeader: testAdminToken})
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PRODUCT_UNAVAILABLE", errorData["code"])
}
