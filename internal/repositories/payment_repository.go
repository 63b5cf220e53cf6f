package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/models"

	"github.com/lib/pq"
)

// PaymentRepository defines the interface for payment-related database
// operations. A payment is one-to-one with its order; details are owned
// rows written alongside the payment.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	CreatePaymentDetail(executor SQLExecutor, detail *models.PaymentDetail) (int64, error)
	GetPaymentByOrderID(orderID int64) (*models.Payment, error)
	GetCompletedPaymentsBetween(start, end time.Time) ([]models.Payment, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, order_id, payment_mode, payment_status, subtotal, cgst, sgst, discount,
	    total_amount, amount_received, change_returned, gst_enabled, transaction_ref, paid_at`

func scanPayment(s scanner, p *models.Payment) error {
	return s.Scan(
		&p.ID, &p.OrderID, &p.PaymentMode, &p.PaymentStatus, &p.Subtotal, &p.CGST, &p.SGST,
		&p.Discount, &p.TotalAmount, &p.AmountReceived, &p.ChangeReturned, &p.GSTEnabled,
		&p.TransactionRef, &p.PaidAt,
	)
}

func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments
	          (order_id, payment_mode, payment_status, subtotal, cgst, sgst, discount,
	           total_amount, amount_received, change_returned, gst_enabled, transaction_ref, paid_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}
	err := executor.QueryRow(query,
		payment.OrderID, payment.PaymentMode, payment.PaymentStatus, payment.Subtotal,
		payment.CGST, payment.SGST, payment.Discount, payment.TotalAmount,
		payment.AmountReceived, payment.ChangeReturned, payment.GSTEnabled,
		payment.TransactionRef, payment.PaidAt,
	).Scan(&payment.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: payment already exists for order %d", ErrDuplicateKey, payment.OrderID)
		}
		return 0, fmt.Errorf("%w: creating payment: %v", ErrDatabaseError, err)
	}
	return payment.ID, nil
}

func (r *paymentRepository) CreatePaymentDetail(executor SQLExecutor, detail *models.PaymentDetail) (int64, error) {
	query := `INSERT INTO payment_details (payment_id, payment_mode, amount, transaction_ref)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, detail.PaymentID, detail.PaymentMode, detail.Amount, detail.TransactionRef).Scan(&detail.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating payment detail: %v", ErrDatabaseError, err)
	}
	return detail.ID, nil
}

func (r *paymentRepository) GetPaymentByOrderID(orderID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	if err := scanPayment(r.db.QueryRow(query, orderID), payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment for order %d: %v", ErrDatabaseError, orderID, err)
	}
	if err := r.loadDetails(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) GetCompletedPaymentsBetween(start, end time.Time) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments
	          WHERE payment_status = $1 AND paid_at >= $2 AND paid_at < $3
	          ORDER BY paid_at`
	rows, err := r.db.Query(query, models.PaymentCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: getting completed payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		if err := scanPayment(rows, &payment); err != nil {
			return nil, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payments: %v", ErrDatabaseError, err)
	}

	for i := range payments {
		if err := r.loadDetails(&payments[i]); err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (r *paymentRepository) loadDetails(payment *models.Payment) error {
	payment.Details = []models.PaymentDetail{}
	rows, err := r.db.Query(`SELECT id, payment_id, payment_mode, amount, transaction_ref
	                         FROM payment_details WHERE payment_id = $1 ORDER BY id`, payment.ID)
	if err != nil {
		return fmt.Errorf("%w: getting payment details for payment %d: %v", ErrDatabaseError, payment.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.PaymentDetail
		if err := rows.Scan(&d.ID, &d.PaymentID, &d.PaymentMode, &d.Amount, &d.TransactionRef); err != nil {
			return fmt.Errorf("%w: scanning payment detail: %v", ErrDatabaseError, err)
		}
		payment.Details = append(payment.Details, d)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating payment details: %v", ErrDatabaseError, err)
	}
	return nil
}
