package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bestellboard/bestellboard-api/config"
	"github.com/bestellboard/bestellboard-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderInput is the untrusted customer payload for submitting or
// editing an order. The quantity stays raw so the permissive fallback
// can be applied at exactly one boundary.
type OrderInput struct {
	CustomerName string                  `json:"customer_name"`
	ProductID    string                  `json:"product_id"`
	Selection    []models.SelectionEntry `json:"selection"`
	Quantity     json.RawMessage         `json:"quantity"`
	Comment      string                  `json:"comment"`
}

// OwnerPolicy decides whether a caller's credential may mutate a
// record. The credential is opaque to the order lifecycle; the default
// policy is plain equality on the device id, which is advisory rather
// than a security boundary. A stronger verifier can be substituted.
type OwnerPolicy interface {
	Authorize(recordCredential, callerCredential string) error
}

// EqualityOwnerPolicy grants mutation rights on exact credential match.
type EqualityOwnerPolicy struct{}

// Authorize compares the credentials for equality.
func (EqualityOwnerPolicy) Authorize(recordCredential, callerCredential string) error {
	if callerCredential == "" || recordCredential != callerCredential {
		return NewOwnershipViolation("order belongs to a different device")
	}
	return nil
}

var ownerPolicyInstance OwnerPolicy = EqualityOwnerPolicy{}

// GetOwnerPolicy returns the active ownership policy.
func GetOwnerPolicy() OwnerPolicy {
	return ownerPolicyInstance
}

// SetOwnerPolicy sets the ownership policy (primarily for testing or
// for an external auth layer substituting a stronger check).
func SetOwnerPolicy(p OwnerPolicy) {
	ownerPolicyInstance = p
}

// SubmitOrder validates the payload, resolves the selection against the
// product's current schema, computes the price snapshot and persists a
// new active order stamped with the caller's device credential. The
// product name, base price and currency are frozen on the record at
// submission time.
func SubmitOrder(deviceID string, input OrderInput) (*models.Order, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, NewInvalidArgument("device id is required")
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, NewInvalidArgument("customer name is required")
	}

	quantity, err := ParseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, NewInvalidArgument("product id is required")
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProductUnavailable("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.Active {
		// hidden from new-order selection; existing orders are unaffected
		return nil, NewProductUnavailable("product is no longer available")
	}

	resolved, snapshot, err := priceAgainstProduct(&product, input.Selection, quantity)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		CustomerName:         customerName,
		ProductID:            product.ID,
		ProductNameSnapshot:  product.Name,
		ProductPriceSnapshot: product.BasePrice,
		CurrencySnapshot:     snapshot.Currency,
		Quantity:             quantity,
		Comment:              optionalString(input.Comment),
		DeviceID:             deviceID,
		UnitPrice:            snapshot.UnitPrice.Amount,
		TotalPrice:           snapshot.TotalPrice.Amount,
	}
	if err := order.SetResolvedOptions(resolved); err != nil {
		return nil, fmt.Errorf("failed to encode resolved options: %w", err)
	}
	if err := order.SetRawSelection(input.Selection); err != nil {
		return nil, fmt.Errorf("failed to encode raw selection: %w", err)
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	PublishOrderSnapshot()
	return &order, nil
}

// EditOrder re-resolves the selection against the product's current
// schema and recomputes the snapshot, overwriting the prior one. Edits
// always reflect present-day pricing, not historical pricing. Only the
// owning device may edit.
func EditOrder(deviceID, orderID string, input OrderInput) (*models.Order, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, NewInvalidArgument("customer name is required")
	}

	quantity, err := ParseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if err := GetOwnerPolicy().Authorize(order.DeviceID, strings.TrimSpace(deviceID)); err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.First(&product, "id = ?", order.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProductUnavailable("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	resolved, snapshot, err := priceAgainstProduct(&product, input.Selection, quantity)
	if err != nil {
		return nil, err
	}

	order.CustomerName = customerName
	order.ProductNameSnapshot = product.Name
	order.ProductPriceSnapshot = product.BasePrice
	order.CurrencySnapshot = snapshot.Currency
	order.Quantity = quantity
	order.Comment = optionalString(input.Comment)
	order.UnitPrice = snapshot.UnitPrice.Amount
	order.TotalPrice = snapshot.TotalPrice.Amount
	if err := order.SetResolvedOptions(resolved); err != nil {
		return nil, fmt.Errorf("failed to encode resolved options: %w", err)
	}
	if err := order.SetRawSelection(input.Selection); err != nil {
		return nil, fmt.Errorf("failed to encode raw selection: %w", err)
	}

	if err := db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	PublishOrderSnapshot()
	return order, nil
}

// ArchiveOrder soft-deletes an order. Archiving an already-archived
// order is a no-op success; the record is never physically deleted.
// Only the owning device may archive.
func ArchiveOrder(deviceID, orderID string) (*models.Order, error) {
	db := config.GetDB()
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if err := GetOwnerPolicy().Authorize(order.DeviceID, strings.TrimSpace(deviceID)); err != nil {
		return nil, err
	}

	if order.Archived {
		return order, nil
	}

	now := time.Now()
	order.Archived = true
	order.ArchivedAt = &now
	if err := db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to archive order: %w", err)
	}

	PublishOrderSnapshot()
	return order, nil
}

// ListOrders returns orders ordered by creation time descending.
// Archived records are excluded unless requested; they stay stored for
// history either way.
func ListOrders(includeArchived bool) ([]models.Order, error) {
	db := config.GetDB()

	query := db.Order("created_at desc")
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ActiveOrdersTotal sums the total price of all non-archived orders.
func ActiveOrdersTotal() (models.Money, error) {
	orders, err := ListOrders(false)
	if err != nil {
		return models.Money{}, err
	}

	total := models.NewMoney(decimal.Zero, defaultCurrency())
	for _, order := range orders {
		total = total.AddAmount(order.TotalPrice)
	}
	return total, nil
}

// PreviewPrice resolves and prices a selection without persisting
// anything, for live previews before submission.
func PreviewPrice(input OrderInput) ([]models.ResolvedOptionDetail, models.PriceSnapshot, error) {
	quantity, err := ParseQuantity(input.Quantity)
	if err != nil {
		return nil, models.PriceSnapshot{}, err
	}

	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, models.PriceSnapshot{}, NewInvalidArgument("product id is required")
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.PriceSnapshot{}, NewProductUnavailable("product not found")
		}
		return nil, models.PriceSnapshot{}, fmt.Errorf("failed to load product: %w", err)
	}

	resolved, snapshot, err := priceAgainstProduct(&product, input.Selection, quantity)
	if err != nil {
		return nil, models.PriceSnapshot{}, err
	}
	return resolved, snapshot, nil
}

// PublishOrderSnapshot loads the full order listing and broadcasts it
// to stream subscribers, archived records included; consumers filter.
func PublishOrderSnapshot() {
	orders, err := ListOrders(true)
	if err != nil {
		log.Printf("warning: failed to publish order snapshot: %v", err)
		return
	}
	OrderStream().Publish(orders)
}

// priceAgainstProduct resolves a selection against the product's
// current schema and computes the snapshot.
func priceAgainstProduct(product *models.Product, selection []models.SelectionEntry, quantity int) ([]models.ResolvedOptionDetail, models.PriceSnapshot, error) {
	schema, err := product.Schema()
	if err != nil {
		return nil, models.PriceSnapshot{}, fmt.Errorf("failed to decode option schema: %w", err)
	}

	resolved := ResolveSelection(schema, selection)
	snapshot, err := ComputeSnapshot(product.Price(), resolved, quantity)
	if err != nil {
		return nil, models.PriceSnapshot{}, err
	}
	return resolved, snapshot, nil
}

// loadOrder fetches an order by id.
func loadOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, NewInvalidArgument("order id is required")
	}

	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOrderNotFound("order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}
