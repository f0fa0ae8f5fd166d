package pos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumLenientDecoding(t *testing.T) {
	var src ItemSource
	raw := `{"product_id":5,"qty":"2","sale_price":null,"unit_price":"45.5","rate":"n/a","mrp":120}`
	require.NoError(t, json.Unmarshal([]byte(raw), &src))

	assert.True(t, src.Qty.Present)
	assert.Equal(t, 2.0, src.Qty.Value)
	assert.False(t, src.SalePrice.Present)
	assert.True(t, src.UnitPrice.Present)
	assert.Equal(t, 45.5, src.UnitPrice.Value)
	assert.False(t, src.Rate.Present, "non-numeric string decodes as absent")
	assert.True(t, src.MRP.Present)
}

func TestPriceFallbackChainOrder(t *testing.T) {
	// sale_price and selling_price missing, unit_price is the first present
	// value and wins over rate and mrp.
	src := ItemSource{
		ProductID: 1,
		Qty:       N(1),
		UnitPrice: N(45),
		Rate:      N(99),
		MRP:       N(120),
	}
	line, ok := ResolveLine(src, "")
	require.True(t, ok)
	assert.Equal(t, 45.0, line.UnitPrice)
}

func TestPriceFallbackZeroCountsAsPresent(t *testing.T) {
	src := ItemSource{ProductID: 1, Qty: N(1), SalePrice: N(0), MRP: N(120)}
	line, ok := ResolveLine(src, "")
	require.True(t, ok)
	assert.Equal(t, 0.0, line.UnitPrice)
}

func TestPriceFallbackReachesProductLevel(t *testing.T) {
	src := ItemSource{ProductID: 1, Qty: N(1)}
	src.Product.Rate = N(80)
	src.Product.MRP = N(95)
	line, ok := ResolveLine(src, "")
	require.True(t, ok)
	assert.Equal(t, 80.0, line.UnitPrice)

	empty := ItemSource{ProductID: 1, Qty: N(1)}
	line, ok = ResolveLine(empty, "")
	require.True(t, ok)
	assert.Equal(t, 0.0, line.UnitPrice)
}

func TestTitleResolutionOrder(t *testing.T) {
	src := ItemSource{ProductID: 1}
	src.Product.Book.Title = "Algebra"
	src.Product.Name = "algebra-product"
	line, _ := ResolveLine(src, "")
	assert.Equal(t, "Algebra", line.Title)

	src.Product.Book.Title = ""
	line, _ = ResolveLine(src, "")
	assert.Equal(t, "algebra-product", line.Title)

	src.Product.Name = ""
	src.Product.Title = "alt title"
	line, _ = ResolveLine(src, "")
	assert.Equal(t, "alt title", line.Title)

	src.Product.Title = ""
	line, _ = ResolveLine(src, "")
	assert.Equal(t, "Book", line.Title)

	src.Product.Type = "material"
	line, _ = ResolveLine(src, "")
	assert.Equal(t, "Item", line.Title)
}

func TestClassNameFallback(t *testing.T) {
	src := ItemSource{ProductID: 1}
	src.Product.Book.ClassName = "VII"
	line, _ := ResolveLine(src, "V")
	assert.Equal(t, "VII", line.ClassName)

	src.Product.Book.ClassName = ""
	line, _ = ResolveLine(src, "V")
	assert.Equal(t, "V", line.ClassName)
}

func TestMissingProductDropsLine(t *testing.T) {
	_, ok := ResolveLine(ItemSource{ProductID: 0, Qty: N(3)}, "")
	assert.False(t, ok)
}

func TestIncludeFollowsQty(t *testing.T) {
	line, _ := ResolveLine(ItemSource{ProductID: 1, Qty: N(2)}, "")
	assert.True(t, line.Include)
	assert.Equal(t, 2.0, line.Qty)

	line, _ = ResolveLine(ItemSource{ProductID: 1, Qty: N(0)}, "")
	assert.False(t, line.Include)

	line, _ = ResolveLine(ItemSource{ProductID: 1}, "")
	assert.False(t, line.Include, "absent qty behaves like zero")
}
