package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleLines() []CartLine {
	return []CartLine{
		{Key: "a", ProductID: 1, Kind: KindBook, Title: "Math", Qty: 2, UnitPrice: 100, Include: true},
		{Key: "b", ProductID: 2, Kind: KindMaterial, Title: "Notebook", Qty: 3, UnitPrice: 20, Include: true},
	}
}

func TestTotalsScenario(t *testing.T) {
	lines := sampleLines()

	full := ComputeTotals(lines, 260)
	assert.Equal(t, 260.0, full.Subtotal)
	assert.Equal(t, 260.0, full.Total)
	assert.Equal(t, 260.0, full.Paid)
	assert.Equal(t, 0.0, full.Balance)
	assert.Equal(t, 2, full.ItemCount)

	partial := ComputeTotals(lines, 100)
	assert.Equal(t, 100.0, partial.Paid)
	assert.Equal(t, 160.0, partial.Balance)

	over := ComputeTotals(lines, 500)
	assert.Equal(t, 260.0, over.Paid, "paid clamps to total")
	assert.Equal(t, 0.0, over.Balance)

	negative := ComputeTotals(lines, -40)
	assert.Equal(t, 0.0, negative.Paid)
	assert.Equal(t, 260.0, negative.Balance)
}

func TestTotalsInvariants(t *testing.T) {
	carts := [][]CartLine{
		nil,
		sampleLines(),
		{{Qty: 0.3, UnitPrice: 0.1, Include: true}, {Qty: 7, UnitPrice: 19.99, Include: true}},
		{{Qty: 5, UnitPrice: 33.335, Include: true}},
	}
	paids := []float64{-10, 0, 0.005, 1, 99999}

	for _, lines := range carts {
		for _, paid := range paids {
			tt := ComputeTotals(lines, paid)
			assert.GreaterOrEqual(t, tt.Paid, 0.0)
			assert.LessOrEqual(t, tt.Paid, tt.Total)
			assert.GreaterOrEqual(t, tt.Balance, 0.0)
			assert.InDelta(t, tt.Total-tt.Paid, tt.Balance, 0.0051)
		}
	}
}

func TestExcludedLinesContributeZero(t *testing.T) {
	lines := sampleLines()
	lines[1].Include = false

	tt := ComputeTotals(lines, 0)
	assert.Equal(t, 200.0, tt.Subtotal)
	assert.Equal(t, 1, tt.ItemCount)

	// Excluded lines keep their data for later re-inclusion.
	assert.Equal(t, 3.0, lines[1].Qty)
	assert.Equal(t, 20.0, lines[1].UnitPrice)
}

func TestPerLineRoundingBeforeSum(t *testing.T) {
	// Each 0.335 line rounds to 0.34 before summing; summing raw values
	// first would give a different cent.
	lines := []CartLine{
		{Qty: 1, UnitPrice: 0.335, Include: true},
		{Qty: 1, UnitPrice: 0.335, Include: true},
	}
	tt := ComputeTotals(lines, 0)
	assert.Equal(t, 0.68, tt.Subtotal)
}

func TestCartMutations(t *testing.T) {
	cart := Cart{Lines: sampleLines(), PaidAmount: 260}

	cart.IncQty("a")
	assert.Equal(t, 3.0, cart.Lines[0].Qty)

	cart.DecQty("b")
	cart.DecQty("b")
	cart.DecQty("b")
	cart.DecQty("b")
	assert.Equal(t, 0.0, cart.Lines[1].Qty, "qty floors at zero")

	cart.ToggleInclude("a")
	assert.False(t, cart.Lines[0].Include)
	cart.ToggleInclude("a")
	assert.True(t, cart.Lines[0].Include)

	qty := 2.0
	price := 110.0
	cart.SetLine("a", LinePatch{Qty: &qty, UnitPrice: &price})
	assert.Equal(t, 2.0, cart.Lines[0].Qty)
	assert.Equal(t, 110.0, cart.Lines[0].UnitPrice)

	before := cart.Lines[0]
	cart.SetLine("missing-key", LinePatch{Qty: &qty})
	assert.Equal(t, before, cart.Lines[0], "unknown key is a no-op")

	cart.SetPaid(-5)
	assert.Equal(t, 0.0, cart.PaidAmount)
}
