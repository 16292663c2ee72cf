package controllers

import (
	"io"
	"net/http"

	"github.com/bestellboard/bestellboard-api/config"
	"github.com/bestellboard/bestellboard-api/middleware"
	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
)

// ListOrders handles GET /api/v1/orders - lists orders newest first.
// Archived orders are excluded unless requested; the running total
// always covers active orders only.
func ListOrders(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	orders, err := services.ListOrders(includeArchived)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	total, err := services.ActiveOrdersTotal()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders":                 orders,
			"active_total":           total,
			"active_total_formatted": total.Format(localeFormat()),
		},
	})
}

// CreateOrder handles POST /api/v1/orders - submits a new order for the
// calling device
func CreateOrder(c *gin.Context) {
	deviceID, err := middleware.GetDeviceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeInvalidArgument,
				"message": "Could not extract device identity",
			},
		})
		return
	}

	var input services.OrderInput
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

	order, err := services.SubmitOrder(deviceID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - edits an order owned by
// the calling device, re-pricing it against the current product
func UpdateOrder(c *gin.Context) {
	deviceID, err := middleware.GetDeviceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeInvalidArgument,
				"message": "Could not extract device identity",
			},
		})
		return
	}

	var input services.OrderInput
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

	order, err := services.EditOrder(deviceID, c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ArchiveOrder handles DELETE /api/v1/orders/:id - archives an order
// owned by the calling device. Archiving twice is a no-op success.
func ArchiveOrder(c *gin.Context) {
	deviceID, err := middleware.GetDeviceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeInvalidArgument,
				"message": "Could not extract device identity",
			},
		})
		return
	}

	order, err := services.ArchiveOrder(deviceID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// PreviewOrder handles POST /api/v1/orders/preview - resolves and
// prices a selection without persisting anything, for live previews
func PreviewOrder(c *gin.Context) {
	var input services.OrderInput
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

	resolved, snapshot, err := services.PreviewPrice(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"resolved_options":      resolved,
			"price_snapshot":        snapshot,
			"unit_price_formatted":  snapshot.UnitPrice.Format(localeFormat()),
			"total_price_formatted": snapshot.TotalPrice.Format(localeFormat()),
		},
	})
}

// StreamOrders handles GET /api/v1/orders/stream - a server-sent event
// stream of full order snapshots, archived records included
func StreamOrders(c *gin.Context) {
	snapshots, cancel := services.OrderStream().Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("orders", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func localeFormat() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.LocaleFormat != "" {
		return cfg.LocaleFormat
	}
	return "de-DE"
}
