package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// SelectionMode determines how many values of a group may be chosen.
type SelectionMode string

const (
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

var (
	// ErrMalformedSchema is returned when an option schema definition is
	// supplied but is not parseable JSON.
	ErrMalformedSchema = errors.New("option schema is not valid JSON")

	// ErrDuplicateGroup is returned when two groups in one schema share an id.
	ErrDuplicateGroup = errors.New("option schema contains duplicate group ids")
)

// OptionValue is one selectable value of a group with its price delta.
type OptionValue struct {
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OptionGroup is a named set of selectable values. The id is the stable
// selection key; labels are presentation only.
type OptionGroup struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	SelectionMode SelectionMode `json:"selection_mode"`
	Values        []OptionValue `json:"values"`
}

// OptionSchema is the validated definition of a product's selectable
// attribute groups. A product without options carries no schema at all
// (nil), never a schema with an empty group list.
type OptionSchema struct {
	Groups []OptionGroup `json:"groups"`
}

// Candidate shapes for cleaning untrusted input. Price deltas are kept
// raw so that unparseable values can fall back to zero instead of
// failing the whole definition.
type optionValueCandidate struct {
	Label      string          `json:"label"`
	PriceDelta json.RawMessage `json:"price_delta"`
}

type optionGroupCandidate struct {
	ID            string                 `json:"id"`
	Label         string                 `json:"label"`
	SelectionMode string                 `json:"selection_mode"`
	Values        []optionValueCandidate `json:"values"`
}

type optionSchemaCandidate struct {
	Groups []optionGroupCandidate `json:"groups"`
}

// CleanOptionSchema validates an untrusted option schema definition.
//
// Absent input (nil, empty, or JSON null) and structurally empty input
// (not an object, no group list, or no group surviving validation)
// produce a nil schema and no error. Supplied text that is not valid
// JSON fails with ErrMalformedSchema; colliding group ids fail with
// ErrDuplicateGroup. The result is either nil or fully valid, never a
// partially populated schema.
//
// Cleaning rules per group, preserving input order throughout:
//   - id and label are trimmed; a group whose id or label is empty
//     after trimming is discarded regardless of its values
//   - selection mode is multi only when explicitly tagged "multi",
//     otherwise single
//   - value labels are trimmed and empty-label values discarded
//   - price deltas that do not parse as finite numbers become 0;
//     parsed deltas are rounded to 2 fractional digits
func CleanOptionSchema(raw json.RawMessage) (*OptionSchema, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, ErrMalformedSchema
	}

	var candidate optionSchemaCandidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		// Valid JSON of the wrong shape (a number, a string, ...) is
		// treated as "no schema", not as a hard failure.
		return nil, nil
	}
	if candidate.Groups == nil {
		return nil, nil
	}

	seen := make(map[string]bool)
	groups := make([]OptionGroup, 0, len(candidate.Groups))
	for _, g := range candidate.Groups {
		id := strings.TrimSpace(g.ID)
		label := strings.TrimSpace(g.Label)
		if id == "" || label == "" {
			continue
		}
		if seen[id] {
			return nil, ErrDuplicateGroup
		}
		seen[id] = true

		mode := SelectionSingle
		if g.SelectionMode == string(SelectionMulti) {
			mode = SelectionMulti
		}

		values := make([]OptionValue, 0, len(g.Values))
		for _, v := range g.Values {
			valueLabel := strings.TrimSpace(v.Label)
			if valueLabel == "" {
				continue
			}
			values = append(values, OptionValue{
				Label:      valueLabel,
				PriceDelta: Round2(parsePriceDelta(v.PriceDelta)),
			})
		}

		groups = append(groups, OptionGroup{
			ID:            id,
			Label:         label,
			SelectionMode: mode,
			Values:        values,
		})
	}

	if len(groups) == 0 {
		return nil, nil
	}
	return &OptionSchema{Groups: groups}, nil
}

// parsePriceDelta parses a raw JSON price delta, accepting numbers and
// numeric strings. Anything else becomes zero.
func parsePriceDelta(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}
