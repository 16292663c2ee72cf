package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriceSnapshot is the frozen price of an order, computed at submission
// or edit time from the product's base price, the resolved options and
// the quantity.
type PriceSnapshot struct {
	UnitPrice  Money  `json:"unit_price"`
	TotalPrice Money  `json:"total_price"`
	Currency   string `json:"currency"`
}

// Order is a persisted customer order. It carries both the raw
// selection (schema-relative, replayable into the form) and the
// resolved, priced detail frozen at submission time. Mutation rights
// are scoped to the device that created the record; archiving is a
// soft delete, archived orders stay around for history.
type Order struct {
	ID                   string          `gorm:"primaryKey;size:36" json:"id"`
	CustomerName         string          `gorm:"not null" json:"customer_name"`
	ProductID            string          `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot  string          `gorm:"not null" json:"product_name_snapshot"`
	ProductPriceSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price_snapshot"`
	CurrencySnapshot     string          `gorm:"not null" json:"currency_snapshot"`
	ResolvedOptions      datatypes.JSON  `json:"resolved_options,omitempty"`
	RawSelection         datatypes.JSON  `json:"raw_selection,omitempty"`
	Quantity             int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Comment              *string         `json:"comment,omitempty"`
	DeviceID             string          `gorm:"not null;index" json:"device_id"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Archived             bool            `gorm:"not null;default:false;index" json:"archived"`
	ArchivedAt           *time.Time      `json:"archived_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Snapshot returns the frozen price of the order as a PriceSnapshot.
func (o *Order) Snapshot() PriceSnapshot {
	return PriceSnapshot{
		UnitPrice:  NewMoney(o.UnitPrice, o.CurrencySnapshot),
		TotalPrice: NewMoney(o.TotalPrice, o.CurrencySnapshot),
		Currency:   o.CurrencySnapshot,
	}
}

// ResolvedOptionDetails decodes the stored resolved options.
func (o *Order) ResolvedOptionDetails() ([]ResolvedOptionDetail, error) {
	if len(o.ResolvedOptions) == 0 {
		return nil, nil
	}
	var details []ResolvedOptionDetail
	if err := json.Unmarshal(o.ResolvedOptions, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// SelectionEntries decodes the stored raw selection.
func (o *Order) SelectionEntries() ([]SelectionEntry, error) {
	if len(o.RawSelection) == 0 {
		return nil, nil
	}
	var entries []SelectionEntry
	if err := json.Unmarshal(o.RawSelection, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetResolvedOptions stores the resolved detail JSON on the record.
func (o *Order) SetResolvedOptions(details []ResolvedOptionDetail) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	o.ResolvedOptions = datatypes.JSON(raw)
	return nil
}

// SetRawSelection stores the raw selection JSON on the record.
func (o *Order) SetRawSelection(entries []SelectionEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	o.RawSelection = datatypes.JSON(raw)
	return nil
}
