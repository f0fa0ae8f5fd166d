package bundles

import "strconv"

// ItemInput is one line of a replace-items payload. Persisted lines carry
// id; pending lines carry client_key. Old clients that still send negative
// synthetic ids are tolerated and mapped onto pending refs.
type ItemInput struct {
	ID         int64   `json:"id,omitempty"`
	ClientKey  string  `json:"client_key,omitempty"`
	ProductID  int64   `json:"product_id"`
	Qty        int     `json:"qty"`
	MRP        float64 `json:"mrp"`
	SalePrice  float64 `json:"sale_price"`
	IsOptional bool    `json:"is_optional"`
	SortOrder  int     `json:"sort_order"`
}

// Ref derives the tagged line reference from the wire form.
func (in ItemInput) Ref() LineRef {
	if in.ID > 0 {
		return PersistedRef(in.ID)
	}
	if in.ClientKey != "" {
		return PendingRef(in.ClientKey)
	}
	// Legacy synthetic negative id; keep it only as an opaque key.
	return PendingRef("legacy-" + strconv.FormatInt(in.ID, 10))
}

// ReplaceItemsRequest replaces a bundle's entire item set in one call. The
// client always sends every current line; the server never receives a diff.
type ReplaceItemsRequest struct {
	Replace bool        `json:"replace"`
	Items   []ItemInput `json:"items"`
}

// AddItemRequest adds a single product to a bundle from the picker.
type AddItemRequest struct {
	ProductID  int64   `json:"product_id"`
	Qty        int     `json:"qty"`
	MRP        float64 `json:"mrp"`
	SalePrice  float64 `json:"sale_price"`
	IsOptional bool    `json:"is_optional"`
}

// AddItemResult reports whether the product was added or was already there.
// A duplicate is a notice, not an error: the item list stays unchanged.
type AddItemResult struct {
	Bundle Bundle `json:"bundle"`
	Notice string `json:"notice,omitempty"`
}
