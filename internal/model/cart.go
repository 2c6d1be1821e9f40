package model

import "github.com/shopspring/decimal"

// CartLine is one distinct menu item's quantity in the active cart.
// Name, Price and Image are copied from the menu item when the line is created.
type CartLine struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Qty   int             `json:"qty"`
}

// Subtotal returns price × qty for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// CartSummary is the cart together with its derived totals.
type CartSummary struct {
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewCartSummary derives the totals from lines.
func NewCartSummary(lines []CartLine) *CartSummary {
	if lines == nil {
		lines = []CartLine{}
	}
	return &CartSummary{
		Lines:     lines,
		Total:     LinesTotal(lines),
		ItemCount: LinesItemCount(lines),
	}
}

// LinesTotal sums price × qty over lines. An empty slice totals zero.
func LinesTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// LinesItemCount sums qty over lines.
func LinesItemCount(lines []CartLine) int {
	count := 0
	for _, l := range lines {
		count += l.Qty
	}
	return count
}

// FindCartLine returns the index of the line for the given menu item id, or -1.
func FindCartLine(lines []CartLine, id string) int {
	for i := range lines {
		if lines[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneLines returns an independent copy of lines.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
