package services

import (
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/events"
	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"

	"github.com/rs/zerolog/log"
)

// --- Data Transfer Objects (DTOs) ---

// PaymentSplitRequest is one tender within a settlement.
type PaymentSplitRequest struct {
	PaymentMode    models.PaymentMode `json:"payment_mode" binding:"required"`
	Amount         float64            `json:"amount" binding:"required,gt=0"`
	TransactionRef *string            `json:"transaction_ref"`
}

// ProcessPaymentRequest settles an order. Either Splits carries the
// tenders, or the legacy single-mode fields do.
type ProcessPaymentRequest struct {
	Discount float64               `json:"discount" binding:"gte=0"`
	Splits   []PaymentSplitRequest `json:"splits" binding:"omitempty,dive"`

	PaymentMode    *models.PaymentMode `json:"payment_mode"`
	AmountReceived float64             `json:"amount_received"`
	TransactionRef *string             `json:"transaction_ref"`

	// GSTEnabled overrides the order's tax flag for this settlement.
	GSTEnabled *bool `json:"gst_enabled"`
}

// BillResponse is a printable pre- or post-settlement bill.
type BillResponse struct {
	Order       *models.Order   `json:"order"`
	Payment     *models.Payment `json:"payment,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// PaymentService settles orders: applies the bill-level discount,
// prorates taxes, validates split tenders, computes change and marks the
// order PAID with its final monetary snapshot.
type PaymentService interface {
	ProcessPayment(orderID int64, req ProcessPaymentRequest) (*models.Payment, error)
	GetPaymentByOrderID(orderID int64) (*models.Payment, error)
	GenerateBill(orderID int64) (*BillResponse, error)
}

type paymentService struct {
	txManager   repositories.TxManager
	orderRepo   repositories.OrderRepository
	paymentRepo repositories.PaymentRepository
	tableRepo   repositories.TableRepository
	customerSvc CustomerService
	taxCalc     *TaxCalculator
	notifier    events.Notifier
	cfg         models.AppConfig
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	txManager repositories.TxManager,
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	tableRepo repositories.TableRepository,
	customerSvc CustomerService,
	taxCalc *TaxCalculator,
	notifier events.Notifier,
	cfg models.AppConfig,
) PaymentService {
	return &paymentService{
		txManager:   txManager,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		tableRepo:   tableRepo,
		customerSvc: customerSvc,
		taxCalc:     taxCalc,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// resolveSplits normalises the request into a non-empty list of tenders.
// The legacy single-mode fields synthesise one split; a missing mode
// defaults to cash. Digital tenders with no received amount assume exact
// payment of the total.
func resolveSplits(req ProcessPaymentRequest, total float64) ([]PaymentSplitRequest, error) {
	if len(req.Splits) > 0 {
		for _, split := range req.Splits {
			if !split.PaymentMode.Valid() {
				return nil, fmt.Errorf("%w: invalid payment mode '%s'", ErrValidation, split.PaymentMode)
			}
			if split.Amount <= 0 {
				return nil, fmt.Errorf("%w: split amounts must be positive", ErrValidation)
			}
		}
		return req.Splits, nil
	}

	mode := models.ModeCash
	if req.PaymentMode != nil {
		mode = *req.PaymentMode
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: invalid payment mode '%s'", ErrValidation, mode)
	}

	amount := req.AmountReceived
	if amount <= 0 {
		if mode == models.ModeCash {
			return nil, fmt.Errorf("%w: cash payment requires amount received", ErrValidation)
		}
		amount = total
	}
	return []PaymentSplitRequest{{PaymentMode: mode, Amount: amount, TransactionRef: req.TransactionRef}}, nil
}

func (s *paymentService) ProcessPayment(orderID int64, req ProcessPaymentRequest) (*models.Payment, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.PaymentStatus == models.PaymentCompleted || order.Status == models.StatusPaid {
		return nil, fmt.Errorf("%w: order %d", ErrAlreadyPaid, orderID)
	}
	if order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cancelled orders cannot be paid", ErrInvalidState)
	}

	gstEnabled := order.GSTEnabled
	if req.GSTEnabled != nil {
		gstEnabled = *req.GSTEnabled
	}

	// Recompute from the item snapshots so the settlement is self-contained
	// even when the GST flag was toggled after the order was placed.
	subtotal, cgst, sgst := s.taxCalc.OrderTotals(order.Items, gstEnabled)

	if req.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	if req.Discount > subtotal {
		return nil, fmt.Errorf("%w: discount %.2f exceeds subtotal %.2f", ErrValidation, req.Discount, subtotal)
	}

	discountedSubtotal := round2(subtotal - req.Discount)
	cgst, sgst = s.taxCalc.Prorate(cgst, sgst, subtotal, req.Discount)
	total := round2(discountedSubtotal + cgst + sgst)

	splits, err := resolveSplits(req, total)
	if err != nil {
		return nil, err
	}

	totalReceived := 0.0
	for _, split := range splits {
		totalReceived += split.Amount
	}
	totalReceived = round2(totalReceived)
	if totalReceived < total {
		return nil, fmt.Errorf("%w: received %.2f is less than the bill total %.2f", ErrValidation, totalReceived, total)
	}

	change := round2(totalReceived - total)
	if change < 0 {
		change = 0
	}

	mode := splits[0].PaymentMode
	var transactionRef *string
	if len(splits) > 1 {
		mode = models.ModeMixed
	} else {
		transactionRef = splits[0].TransactionRef
	}

	payment := &models.Payment{
		OrderID:        orderID,
		PaymentMode:    mode,
		PaymentStatus:  models.PaymentCompleted,
		Subtotal:       discountedSubtotal,
		CGST:           cgst,
		SGST:           sgst,
		Discount:       req.Discount,
		TotalAmount:    total,
		AmountReceived: totalReceived,
		ChangeReturned: change,
		GSTEnabled:     gstEnabled,
		TransactionRef: transactionRef,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.paymentRepo.CreatePayment(tx, payment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: order %d", ErrAlreadyPaid, orderID)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	for _, split := range splits {
		detail := &models.PaymentDetail{
			PaymentID:      payment.ID,
			PaymentMode:    split.PaymentMode,
			Amount:         split.Amount,
			TransactionRef: split.TransactionRef,
		}
		if _, err := s.paymentRepo.CreatePaymentDetail(tx, detail); err != nil {
			return nil, fmt.Errorf("failed to create payment detail: %w", err)
		}
		payment.Details = append(payment.Details, *detail)
	}

	// Final monetary snapshot on the order itself. The stored fields keep
	// the identity total == subtotal - discount + cgst + sgst.
	now := time.Now()
	order.Status = models.StatusPaid
	order.PaymentStatus = models.PaymentCompleted
	order.Subtotal = subtotal
	order.CGST = cgst
	order.SGST = sgst
	order.Discount = req.Discount
	order.TotalAmount = total
	order.GSTEnabled = gstEnabled
	order.CompletedAt = &now
	if err := s.orderRepo.MarkOrderPaid(tx, order); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
		if err := s.tableRepo.Release(tx, *order.TableNumber); err != nil {
			return nil, fmt.Errorf("failed to release table '%s': %w", *order.TableNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	if order.CustomerPhone != nil && *order.CustomerPhone != "" {
		if err := s.customerSvc.RecordVisit(*order.CustomerPhone, total); err != nil {
			log.Warn().Err(err).Str("phone", *order.CustomerPhone).Msg("Failed to record customer visit")
		}
	}

	s.publishSettlement(order)
	return payment, nil
}

func (s *paymentService) GetPaymentByOrderID(orderID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no payment for order %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) GenerateBill(orderID int64) (*BillResponse, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	bill := &BillResponse{Order: order, GeneratedAt: time.Now()}
	payment, err := s.paymentRepo.GetPaymentByOrderID(orderID)
	if err == nil {
		bill.Payment = payment
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get payment for bill: %w", err)
	}
	return bill, nil
}

func (s *paymentService) publishSettlement(order *models.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		Status:      string(order.Status),
		OrderType:   string(order.OrderType),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	if order.TableNumber != nil {
		event.TableNumber = *order.TableNumber
	}
	if err := s.notifier.OrderUpdated(event); err != nil {
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("Failed to publish settlement event")
	}
	if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
		err := s.notifier.TableStatus(events.TableStatusEvent{
			TableNumber: *order.TableNumber,
			Status:      string(models.TableAvailable),
			OrderID:     order.ID,
			OccurredAt:  time.Now(),
		})
		if err != nil {
			log.Warn().Err(err).Str("table", *order.TableNumber).Msg("Failed to publish table event")
		}
	}
}
