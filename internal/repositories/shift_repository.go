package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/models"
)

// ShiftRepository defines the interface for cash-drawer shift records.
type ShiftRepository interface {
	CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error)
	GetActiveShift() (*models.Shift, error)
	GetShiftByID(id int64) (*models.Shift, error)
	GetShifts(page, pageSize int) ([]models.Shift, int, error)
	UpdateShift(executor SQLExecutor, shift *models.Shift) error
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, opened_by, opening_time, opening_cash, closed_by, closing_time, closing_cash,
	    expected_cash, variance, is_active, total_sales, total_cgst, total_sgst, total_discount, order_count`

func scanShift(s scanner, shift *models.Shift, extra ...interface{}) error {
	dest := []interface{}{
		&shift.ID, &shift.OpenedBy, &shift.OpeningTime, &shift.OpeningCash,
		&shift.ClosedBy, &shift.ClosingTime, &shift.ClosingCash,
		&shift.ExpectedCash, &shift.Variance, &shift.IsActive,
		&shift.TotalSales, &shift.TotalCGST, &shift.TotalSGST, &shift.TotalDiscount, &shift.OrderCount,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}

func (r *shiftRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error) {
	query := `INSERT INTO shifts (opened_by, opening_time, opening_cash, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	if shift.OpeningTime.IsZero() {
		shift.OpeningTime = time.Now()
	}
	err := executor.QueryRow(query, shift.OpenedBy, shift.OpeningTime, shift.OpeningCash, shift.IsActive).Scan(&shift.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift.ID, nil
}

func (r *shiftRepository) GetActiveShift() (*models.Shift, error) {
	shift := &models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE is_active = TRUE`
	if err := scanShift(r.db.QueryRow(query), shift); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting active shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

func (r *shiftRepository) GetShiftByID(id int64) (*models.Shift, error) {
	shift := &models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	if err := scanShift(r.db.QueryRow(query, id), shift); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shift by ID %d: %v", ErrDatabaseError, id, err)
	}
	return shift, nil
}

func (r *shiftRepository) GetShifts(page, pageSize int) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0
	query := `SELECT ` + shiftColumns + `, COUNT(*) OVER() AS total_count
	          FROM shifts ORDER BY opening_time DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shift models.Shift
		if err := scanShift(rows, &shift, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		shifts = append(shifts, shift)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shifts: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

func (r *shiftRepository) UpdateShift(executor SQLExecutor, shift *models.Shift) error {
	query := `UPDATE shifts SET
	            closed_by = $1, closing_time = $2, closing_cash = $3, expected_cash = $4,
	            variance = $5, is_active = $6, total_sales = $7, total_cgst = $8,
	            total_sgst = $9, total_discount = $10, order_count = $11
	          WHERE id = $12`
	result, err := executor.Exec(query,
		shift.ClosedBy, shift.ClosingTime, shift.ClosingCash, shift.ExpectedCash,
		shift.Variance, shift.IsActive, shift.TotalSales, shift.TotalCGST,
		shift.TotalSGST, shift.TotalDiscount, shift.OrderCount, shift.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
