package controllers

import (
	"net/http"

	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
)

// UploadProductImage handles POST /api/v1/admin/products/:id/image -
// attaches a PNG image to a product, replacing any previous one
// (admin only)
func UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeInvalidArgument,
				"message": "An image file is required in the 'image' form field",
			},
		})
		return
	}

	product, err := services.AttachProductImage(c.Param("id"), fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}
