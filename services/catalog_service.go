package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/bestellboard/bestellboard-api/config"
	"github.com/bestellboard/bestellboard-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is the untrusted admin payload for creating or updating
// a product. The base price and option schema stay raw until validated.
type ProductInput struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    json.RawMessage `json:"base_price"`
	Currency     string          `json:"currency"`
	Category     string          `json:"category"`
	Active       *bool           `json:"active"`
	OptionSchema json.RawMessage `json:"option_schema"`
}

// UpsertProduct validates the payload and creates the product, or
// updates it in place when a product id is supplied. The option schema
// is cleaned before storage; a schema that collapses to nothing is
// stored as absent. Publishes a fresh catalog snapshot on success.
func UpsertProduct(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewInvalidArgument("product name is required")
	}

	basePrice, err := parseBasePrice(input.BasePrice)
	if err != nil {
		return nil, err
	}

	schema, err := models.CleanOptionSchema(input.OptionSchema)
	if err != nil {
		if errors.Is(err, models.ErrMalformedSchema) || errors.Is(err, models.ErrDuplicateGroup) {
			return nil, NewInvalidArgument(err.Error())
		}
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency()
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	db := config.GetDB()
	productID := strings.TrimSpace(input.ProductID)

	var product models.Product
	if productID != "" {
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewProductUnavailable("product not found")
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
	}

	product.Name = name
	product.Description = optionalString(input.Description)
	product.BasePrice = models.Round2(basePrice)
	product.Currency = currency
	product.Category = optionalString(input.Category)
	product.Active = active
	if err := product.SetSchema(schema); err != nil {
		return nil, fmt.Errorf("failed to encode option schema: %w", err)
	}

	if productID != "" {
		if err := db.Save(&product).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	} else {
		if err := db.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
	}

	PublishCatalogSnapshot()
	return &product, nil
}

// DeleteProduct removes a product from the catalog (soft delete) and
// drops its stored image, then publishes a fresh catalog snapshot.
func DeleteProduct(productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return NewInvalidArgument("product id is required")
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewProductUnavailable("product not found")
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if product.ImageS3Key != nil {
		if imageService := GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*product.ImageS3Key); err != nil {
				log.Printf("warning: failed to delete image for product %s: %v", product.ID, err)
			}
		}
	}

	if err := db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	PublishCatalogSnapshot()
	return nil
}

// ListProducts returns the catalog ordered by name ascending. The
// public listing hides inactive products; existing orders keep working
// against them regardless. Image URLs are filled in when the image
// service is available.
func ListProducts(includeInactive bool) ([]models.Product, error) {
	db := config.GetDB()

	query := db.Order("name asc")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	attachImageURLs(products)
	return products, nil
}

// AttachProductImage uploads a product image, replacing any previous
// one, and publishes a fresh catalog snapshot.
func AttachProductImage(productID string, fileHeader *multipart.FileHeader) (*models.Product, error) {
	imageService := GetImageService()
	if imageService == nil {
		return nil, NewNotConfigured("image storage is not configured")
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", strings.TrimSpace(productID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProductUnavailable("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		return nil, err
	}

	previousKey := product.ImageS3Key
	product.ImageS3Key = &imageKey
	if err := db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if previousKey != nil && *previousKey != imageKey {
		if err := imageService.DeleteImage(*previousKey); err != nil {
			log.Printf("warning: failed to delete replaced image %s: %v", *previousKey, err)
		}
	}

	if url, err := imageService.GetImageURL(imageKey); err == nil {
		product.ImageURL = url
	}

	PublishCatalogSnapshot()
	return &product, nil
}

// PublishCatalogSnapshot loads the full catalog and broadcasts it to
// stream subscribers. The snapshot includes inactive products; viewers
// filter for their own audience.
func PublishCatalogSnapshot() {
	products, err := ListProducts(true)
	if err != nil {
		log.Printf("warning: failed to publish catalog snapshot: %v", err)
		return
	}
	CatalogStream().Publish(products)
}

// parseBasePrice parses a raw JSON price, accepting numbers and numeric
// strings. Prices must parse and be non-negative; there is no silent
// fallback at the admin boundary.
func parseBasePrice(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return decimal.Zero, NewInvalidArgument("base price is required")
	}
	var price decimal.Decimal
	if err := json.Unmarshal(raw, &price); err != nil {
		return decimal.Zero, NewInvalidArgument("base price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, NewInvalidArgument("base price must be >= 0")
	}
	return price, nil
}

func defaultCurrency() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.DefaultCurrency != "" {
		return cfg.DefaultCurrency
	}
	return "EUR"
}

func optionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func attachImageURLs(products []models.Product) {
	imageService := GetImageService()
	if imageService == nil {
		return
	}
	for i := range products {
		if products[i].ImageS3Key == nil {
			continue
		}
		url, err := imageService.GetImageURL(*products[i].ImageS3Key)
		if err != nil {
			log.Printf("warning: failed to build image URL for product %s: %v", products[i].ID, err)
			continue
		}
		products[i].ImageURL = url
	}
}
