package services

import (
	"math"

	"biryanipos_backend/internal/models"
)

// TaxCalculator computes GST amounts for orders. GST is split evenly into
// central (CGST) and state (SGST) halves of each item's rate.
type TaxCalculator struct {
	cfg models.AppConfig
}

// NewTaxCalculator creates a TaxCalculator bound to the given configuration.
func NewTaxCalculator(cfg models.AppConfig) *TaxCalculator {
	return &TaxCalculator{cfg: cfg}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ItemTax returns the CGST and SGST for a single line amount at the given
// GST percentage.
func (c *TaxCalculator) ItemTax(lineAmount, gstPercent float64) (cgst, sgst float64) {
	half := lineAmount * (gstPercent / 2) / 100
	return round2(half), round2(half)
}

// OrderTotals computes subtotal and tax amounts from the full item set.
// Tax is zero when GST is disabled for the order or globally.
func (c *TaxCalculator) OrderTotals(items []models.OrderItem, gstEnabled bool) (subtotal, cgst, sgst float64) {
	for _, item := range items {
		lineAmount := item.Price * float64(item.Quantity)
		subtotal += lineAmount
		if gstEnabled && c.cfg.TaxEnabled {
			itemCGST, itemSGST := c.ItemTax(lineAmount, item.GSTPercent)
			cgst += itemCGST
			sgst += itemSGST
		}
	}
	return round2(subtotal), round2(cgst), round2(sgst)
}

// ProrationFactor returns the ratio by which item-level taxes shrink when a
// bill-level discount is applied. A zero subtotal yields factor 1 so that
// taxes pass through unchanged.
func (c *TaxCalculator) ProrationFactor(subtotal, discount float64) float64 {
	if subtotal <= 0 {
		return 1.0
	}
	return (subtotal - discount) / subtotal
}

// Prorate scales the tax amounts by the discount proration factor.
func (c *TaxCalculator) Prorate(cgst, sgst, subtotal, discount float64) (float64, float64) {
	factor := c.ProrationFactor(subtotal, discount)
	return round2(cgst * factor), round2(sgst * factor)
}
