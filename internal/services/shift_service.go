package services

import (
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
)

// --- Data Transfer Objects (DTOs) ---

// OpenShiftRequest opens the cash drawer for a trading period.
type OpenShiftRequest struct {
	OpenedBy    string  `json:"opened_by" binding:"required"`
	OpeningCash float64 `json:"opening_cash" binding:"gte=0"`
}

// CloseShiftRequest reconciles and closes the active shift.
type CloseShiftRequest struct {
	ClosedBy   string  `json:"closed_by" binding:"required"`
	ActualCash float64 `json:"actual_cash" binding:"gte=0"`
}

// ShiftReport is a mid-shift X report: the running totals of the active
// shift without closing it.
type ShiftReport struct {
	Shift         models.Shift `json:"shift"`
	ExpectedCash  float64      `json:"expected_cash"`
	TotalSales    float64      `json:"total_sales"`
	TotalCGST     float64      `json:"total_cgst"`
	TotalSGST     float64      `json:"total_sgst"`
	TotalDiscount float64      `json:"total_discount"`
	OrderCount    int          `json:"order_count"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// ShiftService manages cash drawer shifts: at most one shift is active at
// a time, and closing reconciles declared cash against the expected
// drawer contents computed from completed cash payments.
type ShiftService interface {
	OpenShift(req OpenShiftRequest) (*models.Shift, error)
	CloseShift(req CloseShiftRequest) (*models.Shift, error)
	GetActiveShift() (*models.Shift, error)
	GetShiftByID(id int64) (*models.Shift, error)
	GetShifts(page, pageSize int) ([]models.Shift, int, error)
	XReport() (*ShiftReport, error)
}

type shiftService struct {
	txManager   repositories.TxManager
	shiftRepo   repositories.ShiftRepository
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
}

// NewShiftService creates a new ShiftService.
func NewShiftService(
	txManager repositories.TxManager,
	shiftRepo repositories.ShiftRepository,
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
) ShiftService {
	return &shiftService{
		txManager:   txManager,
		shiftRepo:   shiftRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

func (s *shiftService) OpenShift(req OpenShiftRequest) (*models.Shift, error) {
	if _, err := s.shiftRepo.GetActiveShift(); err == nil {
		return nil, ErrActiveShiftExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active shift: %w", err)
	}

	shift := &models.Shift{
		OpenedBy:    req.OpenedBy,
		OpeningTime: time.Now(),
		OpeningCash: req.OpeningCash,
		IsActive:    true,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.shiftRepo.CreateShift(tx, shift); err != nil {
		return nil, fmt.Errorf("failed to open shift: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shift open: %w", err)
	}
	return shift, nil
}

// cashTaken is the cash a payment actually left in the drawer: the cash
// tenders minus any change handed back.
func cashTaken(payment models.Payment) float64 {
	cash := 0.0
	for _, detail := range payment.Details {
		if detail.PaymentMode == models.ModeCash {
			cash += detail.Amount
		}
	}
	if cash == 0 {
		return 0
	}
	cash -= payment.ChangeReturned
	if cash < 0 {
		return 0
	}
	return cash
}

// shiftStats aggregates completed payments in [start, end).
func (s *shiftService) shiftStats(start, end time.Time) (cash, sales, cgst, sgst, discount float64, orderCount int, err error) {
	payments, err := s.paymentRepo.GetCompletedPaymentsBetween(start, end)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("failed to load shift payments: %w", err)
	}
	for _, payment := range payments {
		cash += cashTaken(payment)
		sales += payment.TotalAmount
		cgst += payment.CGST
		sgst += payment.SGST
		discount += payment.Discount
	}
	orderCount, err = s.orderRepo.CountOrdersBetween(start, end)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("failed to count shift orders: %w", err)
	}
	return round2(cash), round2(sales), round2(cgst), round2(sgst), round2(discount), orderCount, nil
}

func (s *shiftService) CloseShift(req CloseShiftRequest) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetActiveShift()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveShift
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}

	closingTime := time.Now()
	cash, sales, cgst, sgst, discount, orderCount, err := s.shiftStats(shift.OpeningTime, closingTime)
	if err != nil {
		return nil, err
	}

	shift.ClosedBy = &req.ClosedBy
	shift.ClosingTime = &closingTime
	shift.ClosingCash = req.ActualCash
	shift.ExpectedCash = round2(shift.OpeningCash + cash)
	shift.Variance = round2(req.ActualCash - shift.ExpectedCash)
	shift.IsActive = false
	shift.TotalSales = sales
	shift.TotalCGST = cgst
	shift.TotalSGST = sgst
	shift.TotalDiscount = discount
	shift.OrderCount = orderCount

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.shiftRepo.UpdateShift(tx, shift); err != nil {
		return nil, fmt.Errorf("failed to close shift: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shift close: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetActiveShift() (*models.Shift, error) {
	shift, err := s.shiftRepo.GetActiveShift()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveShift
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShiftByID(id int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShifts(page, pageSize int) ([]models.Shift, int, error) {
	shifts, total, err := s.shiftRepo.GetShifts(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, total, nil
}

func (s *shiftService) XReport() (*ShiftReport, error) {
	shift, err := s.GetActiveShift()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cash, sales, cgst, sgst, discount, orderCount, err := s.shiftStats(shift.OpeningTime, now)
	if err != nil {
		return nil, err
	}

	return &ShiftReport{
		Shift:         *shift,
		ExpectedCash:  round2(shift.OpeningCash + cash),
		TotalSales:    sales,
		TotalCGST:     cgst,
		TotalSGST:     sgst,
		TotalDiscount: discount,
		OrderCount:    orderCount,
		GeneratedAt:   now,
	}, nil
}
