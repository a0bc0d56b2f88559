package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID is the catalog identifier. It is kept as the raw text the
// catalog sent, whether that was a JSON number or a string.
type ProductID string

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string {
	return string(id)
}

// ProductSummary is one entry of the collection endpoint.
type ProductSummary struct {
	ID       ProductID       `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Path is the detail screen route for the product.
func (p ProductSummary) Path() string {
	return "/" + p.ID.String()
}

type Rating struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

// Product is the full record returned by the item endpoint.
type Product struct {
	ProductSummary
	Description string `json:"description"`
	Rating      Rating `json:"rating"`
}
