package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/bundles/dispatches"
)

func TestChallanHTML(t *testing.T) {
	data := dispatches.ChallanData{
		Dispatch: dispatches.Dispatch{
			ID:           7,
			ChallanNo:    "CH-2026-007",
			VehicleNo:    "MH12AB1234",
			Qty:          40,
			DispatchedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
			Notes:        "Handle with care",
		},
		SchoolName:    "St. Xavier's",
		SchoolAddress: "Pune",
		TransportName: "Speedy Logistics",
		BundleSession: "2026-27",
		BundleClass:   "V",
		Items: []dispatches.ChallanItem{
			{Title: "Mathematics V", Qty: 1},
			{Title: "Notebook Pack", Qty: 4},
		},
	}
	html, err := ChallanHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "CH-2026-007")
	assert.Contains(t, html, "St. Xavier&#39;s")
	assert.Contains(t, html, "Speedy Logistics")
	assert.Contains(t, html, "Mathematics V")
	assert.Contains(t, html, "02 Apr 2026")
}

func TestReceiptHTML(t *testing.T) {
	data := ReceiptData{
		SaleID:      42,
		CompanyName: "BookPost Distributors",
		SchoolName:  "Green Valley",
		SoldAt:      time.Date(2026, 4, 5, 9, 30, 0, 0, time.UTC),
		Lines: []ReceiptLine{
			{Title: "Science VI", Qty: 2, UnitPrice: 130, LineTotal: 260},
		},
		Subtotal:    260,
		Total:       260,
		Paid:        100,
		Balance:     160,
		PaymentMode: "CASH",
	}
	html, err := ReceiptHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Receipt #42")
	assert.Contains(t, html, "260.00")
	assert.Contains(t, html, "100.00")
	assert.Contains(t, html, "160.00")
}

func TestReceiptPageOptions(t *testing.T) {
	thermal := ReceiptPageOptions("3in")
	assert.Equal(t, 3.0, thermal.PaperWidthIn)

	a5 := ReceiptPageOptions("a5")
	assert.Equal(t, 5.83, a5.PaperWidthIn)

	assert.Equal(t, a5, ReceiptPageOptions(""))
}
