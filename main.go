package main

import (
	"log"
	"net/http"

	"github.com/bestellboard/bestellboard-api/config"
	"github.com/bestellboard/bestellboard-api/controllers"
	"github.com/bestellboard/bestellboard-api/middleware"
	"github.com/bestellboard/bestellboard-api/models"
	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Basic logging
	log.Println("Starting Bestellboard API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize admin authorization
	services.InitAdminAuthorizer(cfg.AdminToken)
	if cfg.AdminToken == "" {
		log.Println("WARNING: ADMIN_TOKEN is not set; catalog mutations will be rejected")
	}

	// Initialize S3-backed product images when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Product image storage enabled (bucket %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set; product images disabled")
	}

	// Publish the initial catalog and order snapshots for stream subscribers
	services.PublishCatalogSnapshot()
	services.PublishOrderSnapshot()

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Catalog
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/stream", controllers.StreamProducts)

		// Catalog administration
		admin := v1.Group("/admin", middleware.RequireAdminToken())
		{
			admin.POST("/products", controllers.UpsertProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)
			admin.POST("/products/:id/image", controllers.UploadProductImage)
		}

		// Orders
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/stream", controllers.StreamOrders)
		v1.POST("/orders/preview", controllers.PreviewOrder)
		v1.POST("/orders", middleware.RequireDeviceID(), controllers.CreateOrder)
		v1.PUT("/orders/:id", middleware.RequireDeviceID(), controllers.UpdateOrder)
		v1.DELETE("/orders/:id", middleware.RequireDeviceID(), controllers.ArchiveOrder)
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bestellboard API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
