package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a catalog entry with a base price and an optional option
// schema. Deactivating a product hides it from new-order selection but
// leaves existing orders untouched.
type Product struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Description  *string         `json:"description,omitempty"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Currency     string          `gorm:"not null" json:"currency"`
	Category     *string         `json:"category,omitempty"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	OptionSchema datatypes.JSON  `json:"option_schema,omitempty"` // nullable, cleaned schema or NULL for "no options"
	ImageS3Key   *string         `json:"image_s3_key,omitempty"`  // nullable, S3 key for the product image
	ImageURL     string          `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the image
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Price returns the base price as a Money value.
func (p *Product) Price() Money {
	return NewMoney(p.BasePrice, p.Currency)
}

// Schema decodes the stored option schema. A product without options
// returns nil.
func (p *Product) Schema() (*OptionSchema, error) {
	if len(p.OptionSchema) == 0 {
		return nil, nil
	}
	var schema OptionSchema
	if err := json.Unmarshal(p.OptionSchema, &schema); err != nil {
		return nil, err
	}
	if len(schema.Groups) == 0 {
		return nil, nil
	}
	return &schema, nil
}

// SetSchema stores a cleaned schema, or clears the column for nil.
func (p *Product) SetSchema(schema *OptionSchema) error {
	if schema == nil {
		p.OptionSchema = nil
		return nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return err
	}
	p.OptionSchema = datatypes.JSON(raw)
	return nil
}
