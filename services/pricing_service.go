package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bestellboard/bestellboard-api/models"
	"github.com/shopspring/decimal"
)

// ResolveSelection maps a raw selection against an option schema and
// returns the priced detail, one entry per group with at least one
// matched value, in schema group order.
//
// Single-select groups contribute the first chosen value that matches a
// group value by exact label. Multi-select groups contribute every
// matching chosen value in input order; duplicates are not deduped and
// sum their deltas. Chosen group ids absent from the schema are ignored
// so selections survive schema edits. A nil schema resolves to nothing.
func ResolveSelection(schema *models.OptionSchema, selection []models.SelectionEntry) []models.ResolvedOptionDetail {
	if schema == nil || len(schema.Groups) == 0 {
		return nil
	}

	chosenByGroup := make(map[string]models.ChosenValues, len(selection))
	for _, entry := range selection {
		// the raw selection is a mapping; a repeated group id is
		// last-write-wins like any other write to this record
		chosenByGroup[entry.GroupID] = entry.Values
	}

	var details []models.ResolvedOptionDetail
	for _, group := range schema.Groups {
		chosen, ok := chosenByGroup[group.ID]
		if !ok || len(chosen) == 0 {
			continue
		}

		if group.SelectionMode == models.SelectionMulti {
			var labels []string
			sum := decimal.Zero
			for _, pick := range chosen {
				value, found := findGroupValue(group, pick)
				if !found {
					continue
				}
				labels = append(labels, value.Label)
				sum = sum.Add(models.Round2(value.PriceDelta))
			}
			if len(labels) == 0 {
				continue
			}
			details = append(details, models.ResolvedOptionDetail{
				GroupID:       group.ID,
				GroupLabel:    group.Label,
				SelectionMode: group.SelectionMode,
				Values:        labels,
				PriceDelta:    models.Round2(sum),
			})
			continue
		}

		for _, pick := range chosen {
			value, found := findGroupValue(group, pick)
			if !found {
				continue
			}
			details = append(details, models.ResolvedOptionDetail{
				GroupID:       group.ID,
				GroupLabel:    group.Label,
				SelectionMode: group.SelectionMode,
				Values:        []string{value.Label},
				PriceDelta:    models.Round2(value.PriceDelta),
			})
			break
		}
	}
	return details
}

// findGroupValue matches a chosen label against the group's values by
// exact label comparison.
func findGroupValue(group models.OptionGroup, label string) (models.OptionValue, bool) {
	for _, value := range group.Values {
		if value.Label == label {
			return value, true
		}
	}
	return models.OptionValue{}, false
}

// ComputeSnapshot derives the frozen price of an order: the unit price
// is the base price plus all resolved deltas, the total is the unit
// price times the quantity, each rounded to 2 fractional digits. The
// snapshot carries the product's currency; deltas are assumed to be
// denominated in it, which holds because they are all sourced from the
// same product's schema.
func ComputeSnapshot(basePrice models.Money, resolved []models.ResolvedOptionDetail, quantity int) (models.PriceSnapshot, error) {
	if quantity < 1 {
		return models.PriceSnapshot{}, NewInvalidArgument("quantity must be a positive integer")
	}

	unit := basePrice
	for _, detail := range resolved {
		unit = unit.AddAmount(detail.PriceDelta)
	}

	total, err := unit.Scale(decimal.NewFromInt(int64(quantity)))
	if err != nil {
		return models.PriceSnapshot{}, err
	}

	return models.PriceSnapshot{
		UnitPrice:  unit,
		TotalPrice: total,
		Currency:   basePrice.Currency,
	}, nil
}

// ParseQuantity parses a raw JSON quantity from a request body.
//
// Absent or non-numeric input falls back to 1; this permissive default
// is deliberate and mirrors the form behavior customers already rely
// on. An explicitly numeric quantity must be a positive integer.
func ParseQuantity(raw json.RawMessage) (int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 1, nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 1, nil
	}

	switch v := parsed.(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 {
			return 0, NewInvalidArgument("quantity must be a positive integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 1, nil
		}
		if n < 1 {
			return 0, NewInvalidArgument("quantity must be a positive integer")
		}
		return n, nil
	default:
		return 1, nil
	}
}
