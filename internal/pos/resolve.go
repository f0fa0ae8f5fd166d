package pos

import (
	"bytes"
	"strconv"
	"strings"
)

// Num is a float64 that decodes leniently. Production bundle data stores
// numbers sometimes as JSON numbers and sometimes as numeric strings;
// missing, null or non-numeric values decode as absent rather than failing
// the whole document.
type Num struct {
	Value   float64
	Present bool
}

func N(v float64) Num {
	return Num{Value: v, Present: true}
}

func (n *Num) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Num{}
		return nil
	}
	s := string(b)
	if s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*n = Num{}
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = Num{}
		return nil
	}
	*n = Num{Value: v, Present: true}
	return nil
}

func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

const (
	KindBook     = "BOOK"
	KindMaterial = "MATERIAL"
)

// ItemSource is the raw shape a bundle line arrives in, either from this
// service's own tables or from the legacy backend. Price and name data have
// historically lived in several of these fields at once or none of them.
type ItemSource struct {
	ProductID    int64         `json:"product_id"`
	Qty          Num           `json:"qty"`
	SalePrice    Num           `json:"sale_price"`
	SellingPrice Num           `json:"selling_price"`
	UnitPrice    Num           `json:"unit_price"`
	Rate         Num           `json:"rate"`
	MRP          Num           `json:"mrp"`
	Product      ProductSource `json:"product"`
}

type ProductSource struct {
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	Title        string     `json:"title"`
	SellingPrice Num        `json:"selling_price"`
	Rate         Num        `json:"rate"`
	MRP          Num        `json:"mrp"`
	Book         BookSource `json:"book"`
}

type BookSource struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ClassName string `json:"class_name"`
}

// CartLine is one editable row of a terminal cart.
type CartLine struct {
	Key       string  `json:"key"`
	ProductID int64   `json:"product_id"`
	BookID    int64   `json:"book_id,omitempty"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	ClassName string  `json:"class_name,omitempty"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Include   bool    `json:"include"`
}

// resolveKind uppercases the product type; anything that is not exactly
// MATERIAL counts as BOOK. Unknown types fail safe towards the common case.
func resolveKind(productType string) string {
	if strings.ToUpper(productType) == KindMaterial {
		return KindMaterial
	}
	return KindBook
}

// resolveTitle picks the first non-empty display name.
func resolveTitle(src ItemSource, kind string) string {
	for _, candidate := range []string{src.Product.Book.Title, src.Product.Name, src.Product.Title} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	if kind == KindBook {
		return "Book"
	}
	return "Item"
}

// resolveUnitPrice walks the fallback chain. The first present value wins,
// zero included; the order must not change because different production
// records populate different subsets of these fields.
func resolveUnitPrice(src ItemSource) float64 {
	chain := []Num{
		src.SalePrice,
		src.SellingPrice,
		src.UnitPrice,
		src.Rate,
		src.MRP,
		src.Product.SellingPrice,
		src.Product.Rate,
		src.Product.MRP,
	}
	for _, n := range chain {
		if n.Present {
			return n.Value
		}
	}
	return 0
}

// ResolveLine derives a cart line from a raw bundle item. It returns false
// when the line must be dropped (no usable product reference).
func ResolveLine(src ItemSource, classFallback string) (CartLine, bool) {
	if src.ProductID <= 0 {
		return CartLine{}, false
	}

	kind := resolveKind(src.Product.Type)
	title := resolveTitle(src, kind)

	className := src.Product.Book.ClassName
	if className == "" {
		className = classFallback
	}

	qty := 0.0
	if src.Qty.Present && src.Qty.Value > 0 {
		qty = src.Qty.Value
	}

	line := CartLine{
		Key:       lineKey(src.ProductID, src.Product.Book.ID, title),
		ProductID: src.ProductID,
		BookID:    src.Product.Book.ID,
		Kind:      kind,
		Title:     title,
		ClassName: className,
		Qty:       qty,
		UnitPrice: resolveUnitPrice(src),
		Include:   qty > 0,
	}
	return line, true
}

func lineKey(productID, bookID int64, title string) string {
	return strconv.FormatInt(productID, 10) + "-" + strconv.FormatInt(bookID, 10) + "-" + title
}
