package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MenuItem is a sellable catalog entry.
type MenuItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// MenuItemInput carries the raw, unparsed fields of a create or update request.
type MenuItemInput struct {
	Name  string   `json:"name"`
	Price RawPrice `json:"price"`
	Image string   `json:"image"`
}

// RawPrice is price text as the user typed it. It decodes from either a JSON
// number or a JSON string so that parsing and validation happen in one place.
type RawPrice string

// UnmarshalJSON implements json.Unmarshaler.
func (p *RawPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = RawPrice(s)
	default:
		*p = RawPrice(data)
	}
	return nil
}

// FindMenuItem returns the index of the item with the given id, or -1.
func FindMenuItem(items []MenuItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
