package models

import "time"

// Shift is a cash-drawer session. At most one shift is active at a time.
// Aggregate totals are computed over [OpeningTime, ClosingTime) and
// frozen when the shift closes.
type Shift struct {
	ID          int64     `json:"id" db:"id"`
	OpenedBy    string    `json:"opened_by" db:"opened_by"`
	OpeningTime time.Time `json:"opening_time" db:"opening_time"`
	OpeningCash float64   `json:"opening_cash" db:"opening_cash"`

	ClosedBy    *string    `json:"closed_by,omitempty" db:"closed_by"`
	ClosingTime *time.Time `json:"closing_time,omitempty" db:"closing_time"`
	ClosingCash float64    `json:"closing_cash" db:"closing_cash"`
	ExpectedCash float64   `json:"expected_cash" db:"expected_cash"` // opening cash + in-window cash sales
	Variance     float64   `json:"variance" db:"variance"`           // declared - expected

	IsActive bool `json:"is_active" db:"is_active"`

	// Aggregates over the open window.
	TotalSales    float64 `json:"total_sales" db:"total_sales"`
	TotalCGST     float64 `json:"total_cgst" db:"total_cgst"`
	TotalSGST     float64 `json:"total_sgst" db:"total_sgst"`
	TotalDiscount float64 `json:"total_discount" db:"total_discount"`
	OrderCount    int     `json:"order_count" db:"order_count"`
}
