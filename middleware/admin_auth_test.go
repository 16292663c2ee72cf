package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireAdminToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		configured     string
		submitted      string
		wantStatusCode int
		wantAborted    bool
		wantCode       string
	}{
		{
			name:           "valid token passes through",
			configured:     "super-secret",
			submitted:      "super-secret",
			wantStatusCode: 0,
			wantAborted:    false,
		},
		{
			name:           "wrong token is forbidden",
			configured:     "super-secret",
			submitted:      "guess",
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
			wantCode:       services.CodePermissionDenied,
		},
		{
			name:           "missing token is forbidden",
			configured:     "super-secret",
			submitted:      "",
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
			wantCode:       services.CodePermissionDenied,
		},
		{
			name:           "unconfigured token is a server problem",
			configured:     "",
			submitted:      "super-secret",
			wantStatusCode: http.StatusServiceUnavailable,
			wantAborted:    true,
			wantCode:       services.CodeNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := services.GetAdminAuthorizer()
			defer services.SetAdminAuthorizer(original)
			services.InitAdminAuthorizer(tt.configured)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/admin/products", nil)
			if tt.submitted != "" {
				c.Request.Header.Set(AdminTokenHeader, tt.submitted)
			}

			handler := RequireAdminToken()
			handler(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
				assert.Contains(t, w.Body.String(), tt.wantCode)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestRequireAdminTokenWithoutAuthorizer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	original := services.GetAdminAuthorizer()
	defer services.SetAdminAuthorizer(original)
	services.SetAdminAuthorizer(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/products", nil)

	handler := RequireAdminToken()
	handler(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), services.CodeNotConfigured)
}
