package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/bestellboard/bestellboard-api/services"
	"github.com/bestellboard/bestellboard-api/utils"
	"github.com/gin-gonic/gin"
)

// statusForCode maps service error codes onto HTTP statuses.
var statusForCode = map[string]int{
	services.CodeInvalidArgument:    http.StatusBadRequest,
	services.CodePermissionDenied:   http.StatusForbidden,
	services.CodeOwnershipViolation: http.StatusForbidden,
	services.CodeProductUnavailable: http.StatusNotFound,
	services.CodeOrderNotFound:      http.StatusNotFound,
	services.CodeNotConfigured:      http.StatusServiceUnavailable,
}

// respondServiceError writes the error envelope for a failed service
// call. Errors outside the service taxonomy are reported as database
// errors without leaking their details.
func respondServiceError(c *gin.Context, err error) {
	if code := services.ErrorCode(err); code != "" {
		c.JSON(statusForCode[code], gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	log.Printf("Internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Operation failed",
		},
	})
}
