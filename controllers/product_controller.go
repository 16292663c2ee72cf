package controllers

import (
	"io"
	"net/http"

	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
)

// ListProducts handles GET /api/v1/products - lists the catalog ordered
// by name. Inactive products are hidden unless explicitly requested.
func ListProducts(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	products, err := services.ListProducts(includeInactive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// UpsertProduct handles POST /api/v1/admin/products - creates a product,
// or updates one in place when a product_id is supplied (admin only)
func UpsertProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeInvalidArgument,
				"message": "Invalid request data",
			},
		})
		return
	}

	product, err := services.UpsertProduct(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if input.ProductID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id (admin only)
func DeleteProduct(c *gin.Context) {
	if err := services.DeleteProduct(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// StreamProducts handles GET /api/v1/products/stream - a server-sent
// event stream of full catalog snapshots. The current snapshot is sent
// immediately, then one event per catalog change until the client
// disconnects.
func StreamProducts(c *gin.Context) {
	snapshots, cancel := services.CatalogStream().Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("products", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
