package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ProductID
	}{
		{name: "integer", raw: `5`, want: "5"},
		{name: "string", raw: `"abc-9"`, want: "abc-9"},
		{name: "large integer", raw: `12345678901234567890`, want: "12345678901234567890"},
		{name: "null", raw: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ProductID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ProductID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestProduct_DecodeDetailRecord(t *testing.T) {
	raw := `{
		"id": 5,
		"title": "John Hardy Women's Legends Naga Gold & Silver Dragon Station Chain Bracelet",
		"price": 695,
		"description": "From our Legends Collection.",
		"category": "jewelery",
		"image": "https://fakestoreapi.com/img/71pWzhdJNwL._AC_UL640_QL65_ML3_.jpg",
		"rating": {"rate": 4.6, "count": 400}
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, ProductID("5"), p.ID)
	assert.Equal(t, "/5", p.Path())
	assert.Equal(t, "jewelery", p.Category)
	assert.Equal(t, "695", p.Price.String())
	assert.Equal(t, "4.6", p.Rating.Rate.String())
	assert.Equal(t, 400, p.Rating.Count)
	assert.Equal(t, "From our Legends Collection.", p.Description)
}

func TestProductSummary_PriceKeepsResponseDigits(t *testing.T) {
	var items []ProductSummary
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"price":109.95},{"id":2,"price":22.3}]`), &items))

	require.Len(t, items, 2)
	assert.Equal(t, "109.95", items[0].Price.String())
	assert.Equal(t, "22.3", items[1].Price.String())
}
