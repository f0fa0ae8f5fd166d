package catalog

import "strings"

// ProductKind discriminates the two sellable catalogue entry types.
type ProductKind string

const (
	KindBook     ProductKind = "BOOK"
	KindMaterial ProductKind = "MATERIAL"
)

// Book is the legacy book record embedded in BOOK products.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Code      string `json:"code"`
	ClassName string `json:"class_name"`
}

// Product is a sellable catalogue entry: a BOOK wrapping a book record, or a
// MATERIAL with its own name and unit. Prices are pointers because the
// upstream data populates different subsets of the price fields per record.
type Product struct {
	ID           int64       `json:"id"`
	Type         ProductKind `json:"type"`
	Name         string      `json:"name"`
	Title        string      `json:"title,omitempty"`
	UOM          string      `json:"uom,omitempty"`
	SellingPrice *float64    `json:"selling_price,omitempty"`
	Rate         *float64    `json:"rate,omitempty"`
	MRP          *float64    `json:"mrp,omitempty"`
	IsActive     bool        `json:"is_active"`
	Book         *Book       `json:"book,omitempty"`
}

// DisplayTitle resolves the human title with the documented fallbacks.
func (p Product) DisplayTitle() string {
	if p.Book != nil && p.Book.Title != "" {
		return p.Book.Title
	}
	if p.Name != "" {
		return p.Name
	}
	if p.Title != "" {
		return p.Title
	}
	if p.Kind() == KindBook {
		return "Book"
	}
	return "Item"
}

// Kind normalizes the type field: anything other than exactly MATERIAL is a
// BOOK. Unknown types fail safe rather than erroring.
func (p Product) Kind() ProductKind {
	if strings.ToUpper(string(p.Type)) == string(KindMaterial) {
		return KindMaterial
	}
	return KindBook
}

// SearchResult is what the picker endpoint returns. Degraded marks that the
// richer products endpoint was unavailable and the books fallback served the
// data, so the client can show its soft informational banner.
type SearchResult struct {
	Products []Product `json:"products"`
	Degraded bool      `json:"degraded"`
}
