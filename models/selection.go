package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ChosenValues holds the value labels a customer picked for one group.
// On the wire a single-select pick may arrive as a bare string and a
// multi-select pick as a list; both decode into the same slice.
type ChosenValues []string

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
func (c *ChosenValues) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = ChosenValues{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = ChosenValues(list)
	return nil
}

// SelectionEntry is a raw, schema-relative option pick: a group id and
// the chosen value label(s). It is only meaningful together with the
// option schema it was made against.
type SelectionEntry struct {
	GroupID string       `json:"group_id"`
	Values  ChosenValues `json:"value"`
}

// ResolvedOptionDetail is the priced, labeled projection of a selection
// entry, frozen at order time. It is never recomputed after creation;
// later product or schema edits do not touch existing orders.
type ResolvedOptionDetail struct {
	GroupID       string
	GroupLabel    string
	SelectionMode SelectionMode
	Values        []string
	PriceDelta    decimal.Decimal
}

// resolvedOptionWire is the JSON shape of a resolved detail. The chosen
// value is a bare string for single-select groups and a list for
// multi-select groups.
type resolvedOptionWire struct {
	GroupID       string          `json:"group_id"`
	GroupLabel    string          `json:"group_label"`
	SelectionMode SelectionMode   `json:"selection_mode"`
	Value         json.RawMessage `json:"value"`
	PriceDelta    decimal.Decimal `json:"price_delta"`
}

// MarshalJSON renders the chosen value as a string (single) or list (multi).
func (d ResolvedOptionDetail) MarshalJSON() ([]byte, error) {
	var value any
	if d.SelectionMode == SelectionMulti {
		value = d.Values
	} else if len(d.Values) > 0 {
		value = d.Values[0]
	} else {
		value = ""
	}

	rawValue, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resolvedOptionWire{
		GroupID:       d.GroupID,
		GroupLabel:    d.GroupLabel,
		SelectionMode: d.SelectionMode,
		Value:         rawValue,
		PriceDelta:    d.PriceDelta,
	})
}

// UnmarshalJSON accepts both value shapes regardless of the recorded mode.
func (d *ResolvedOptionDetail) UnmarshalJSON(data []byte) error {
	var wire resolvedOptionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var values ChosenValues
	if len(wire.Value) > 0 {
		if err := json.Unmarshal(wire.Value, &values); err != nil {
			return err
		}
	}

	d.GroupID = wire.GroupID
	d.GroupLabel = wire.GroupLabel
	d.SelectionMode = wire.SelectionMode
	d.Values = values
	d.PriceDelta = wire.PriceDelta
	return nil
}
