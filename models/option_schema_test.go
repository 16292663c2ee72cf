package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOptionSchemaAbsence(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "json null", input: "null"},
		{name: "not an object", input: `42`},
		{name: "string input", input: `"gruppen"`},
		{name: "object without groups", input: `{"foo": "bar"}`},
		{name: "empty group list", input: `{"groups": []}`},
		{name: "all groups invalid", input: `{"groups": [{"id": "  ", "label": "Size"}, {"id": "x", "label": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := CleanOptionSchema(json.RawMessage(tt.input))
			assert.NoError(t, err)
			assert.Nil(t, schema)
		})
	}
}

func TestCleanOptionSchemaMalformedJSON(t *testing.T) {
	_, err := CleanOptionSchema(json.RawMessage(`{"groups": [`))
	assert.ErrorIs(t, err, ErrMalformedSchema)
}

func TestCleanOptionSchemaDuplicateGroupID(t *testing.T) {
	input := `{"groups": [
		{"id": "size", "label": "Größe"},
		{"id": "size", "label": "Size again"}
	]}`
	_, err := CleanOptionSchema(json.RawMessage(input))
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestCleanOptionSchemaNormalizes(t *testing.T) {
	input := `{"groups": [
		{
			"id": "  size ",
			"label": " Größe ",
			"values": [
				{"label": " Klein ", "price_delta": 0},
				{"label": "Groß", "price_delta": "2.005"},
				{"label": "   ", "price_delta": 9.99},
				{"label": "Unbezahlbar", "price_delta": "not-a-number"}
			]
		},
		{
			"id": "extras",
			"label": "Extras",
			"selection_mode": "multi",
			"values": [
				{"label": "Sauce", "price_delta": 0.5},
				{"label": "Käse", "price_delta": 1}
			]
		},
		{"id": "", "label": "dropped"}
	]}`

	schema, err := CleanOptionSchema(json.RawMessage(input))
	assert.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Len(t, schema.Groups, 2)

	size := schema.Groups[0]
	assert.Equal(t, "size", size.ID)
	assert.Equal(t, "Größe", size.Label)
	assert.Equal(t, SelectionSingle, size.SelectionMode)
	assert.Len(t, size.Values, 3)
	assert.Equal(t, "Klein", size.Values[0].Label)
	assert.Equal(t, "0.00", size.Values[0].PriceDelta.StringFixed(2))
	assert.Equal(t, "2.01", size.Values[1].PriceDelta.StringFixed(2))
	// unparseable delta falls back to zero, value itself survives
	assert.Equal(t, "Unbezahlbar", size.Values[2].Label)
	assert.Equal(t, "0.00", size.Values[2].PriceDelta.StringFixed(2))

	extras := schema.Groups[1]
	assert.Equal(t, SelectionMulti, extras.SelectionMode)
	assert.Len(t, extras.Values, 2)
}

func TestCleanOptionSchemaModeDefaultsToSingle(t *testing.T) {
	input := `{"groups": [{"id": "g", "label": "G", "selection_mode": "MULTI"}]}`
	schema, err := CleanOptionSchema(json.RawMessage(input))
	assert.NoError(t, err)
	// only an exact "multi" tag switches the mode
	assert.Equal(t, SelectionSingle, schema.Groups[0].SelectionMode)
}

func TestCleanOptionSchemaPreservesOrder(t *testing.T) {
	input := `{"groups": [
		{"id": "b", "label": "B", "values": [{"label": "z"}, {"label": "a"}]},
		{"id": "a", "label": "A"}
	]}`
	schema, err := CleanOptionSchema(json.RawMessage(input))
	assert.NoError(t, err)
	assert.Equal(t, "b", schema.Groups[0].ID)
	assert.Equal(t, "a", schema.Groups[1].ID)
	assert.Equal(t, "z", schema.Groups[0].Values[0].Label)
	assert.Equal(t, "a", schema.Groups[0].Values[1].Label)
}

func TestCleanOptionSchemaIdempotent(t *testing.T) {
	input := `{"groups": [
		{"id": "size", "label": "Größe", "values": [{"label": "Klein", "price_delta": 0}, {"label": "Groß", "price_delta": 2}]},
		{"id": "extras", "label": "Extras", "selection_mode": "multi", "values": [{"label": "Sauce", "price_delta": 0.5}]}
	]}`

	first, err := CleanOptionSchema(json.RawMessage(input))
	assert.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	assert.NoError(t, err)

	second, err := CleanOptionSchema(firstJSON)
	assert.NoError(t, err)

	secondJSON, err := json.Marshal(second)
	assert.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}
