package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the frozen record of a completed checkout. It is never mutated after creation.
type Invoice struct {
	ID    string          `json:"id"`
	Date  time.Time       `json:"date"`
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewInvoice snapshots lines into an invoice. The total is recomputed from the copied lines.
func NewInvoice(id string, date time.Time, lines []CartLine) *Invoice {
	items := CloneLines(lines)
	return &Invoice{
		ID:    id,
		Date:  date,
		Items: items,
		Total: LinesTotal(items),
	}
}

// Clone returns a deep copy of the invoice.
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	clone := *inv
	clone.Items = CloneLines(inv.Items)
	return &clone
}

// Document is a rendered invoice ready for download.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
