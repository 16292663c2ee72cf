package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DeviceIDHeader carries the client-asserted device identifier. It is
// the owner credential for order mutations: advisory, not a security
// boundary.
const DeviceIDHeader = "X-Device-ID"

// DeviceError represents a device identity error
type DeviceError struct {
	Code    string
	Message string
}

func (e *DeviceError) Error() string {
	return e.Message
}

// RequireDeviceID is a middleware that extracts the device identifier
// and rejects mutating order requests without one.
func RequireDeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		if deviceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ARGUMENT",
					"message": "X-Device-ID header is required",
				},
			})
			c.Abort()
			return
		}

		c.Set("device_id", deviceID)
		c.Next()
	}
}

// GetDeviceID extracts the device ID from the Gin context
func GetDeviceID(c *gin.Context) (string, error) {
	deviceID, exists := c.Get("device_id")
	if !exists {
		return "", &DeviceError{Code: "MISSING_DEVICE_ID", Message: "Device ID not found in context"}
	}

	deviceIDStr, ok := deviceID.(string)
	if !ok {
		return "", &DeviceError{Code: "INVALID_DEVICE_ID", Message: "Device ID is not a string"}
	}

	return deviceIDStr, nil
}
