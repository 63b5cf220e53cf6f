package models

import "time"

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// PaymentMode is the instrument used to pay.
type PaymentMode string

const (
	ModeCash  PaymentMode = "CASH"
	ModeCard  PaymentMode = "CARD"
	ModeUPI   PaymentMode = "UPI"
	ModeMixed PaymentMode = "MIXED" // more than one instrument on a single payment
)

// Valid reports whether m is a known concrete payment mode. MIXED is
// derived, never accepted as an input mode.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeCard, ModeUPI:
		return true
	}
	return false
}

// Payment is the one-to-one settlement record for a PAID order. The
// monetary fields are snapshots of the discounted, reprorated totals at
// the moment of settlement.
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	OrderID       int64         `json:"order_id" db:"order_id"`
	PaymentMode   PaymentMode   `json:"payment_mode" db:"payment_mode"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	Subtotal    float64 `json:"subtotal" db:"subtotal"` // after discount
	CGST        float64 `json:"cgst" db:"cgst"`
	SGST        float64 `json:"sgst" db:"sgst"`
	Discount    float64 `json:"discount" db:"discount"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`

	AmountReceived float64 `json:"amount_received" db:"amount_received"`
	ChangeReturned float64 `json:"change_returned" db:"change_returned"`
	GSTEnabled     bool    `json:"gst_enabled" db:"gst_enabled"`
	TransactionRef *string `json:"transaction_ref,omitempty" db:"transaction_ref"`

	PaidAt time.Time `json:"paid_at" db:"paid_at"`

	// One row per instrument; amounts sum to AmountReceived.
	Details []PaymentDetail `json:"details"`
}

// PaymentDetail records one instrument's share of a payment.
type PaymentDetail struct {
	ID             int64       `json:"id" db:"id"`
	PaymentID      int64       `json:"payment_id" db:"payment_id"`
	PaymentMode    PaymentMode `json:"payment_mode" db:"payment_mode"`
	Amount         float64     `json:"amount" db:"amount"`
	TransactionRef *string     `json:"transaction_ref,omitempty" db:"transaction_ref"`
}
