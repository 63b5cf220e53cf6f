package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
)

// CreateCustomerRequest registers a customer for the loyalty programme.
type CreateCustomerRequest struct {
	Phone string  `json:"phone" binding:"required"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateCustomerRequest edits customer contact details.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// CustomerService manages the loyalty programme: visits, spend and points.
type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByPhone(phone string) (*models.Customer, error)
	GetCustomers(page, pageSize int) ([]models.Customer, int, error)
	UpdateCustomer(phone string, req UpdateCustomerRequest) (*models.Customer, error)

	// RecordVisit credits a settled bill to the customer, creating the
	// record on first visit.
	RecordVisit(phone string, amount float64) error
}

type customerService struct {
	txManager    repositories.TxManager
	customerRepo repositories.CustomerRepository
	cfg          models.AppConfig
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(txManager repositories.TxManager, customerRepo repositories.CustomerRepository, cfg models.AppConfig) CustomerService {
	return &customerService{txManager: txManager, customerRepo: customerRepo, cfg: cfg}
}

func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		Phone: req.Phone,
		Name:  req.Name,
		Email: req.Email,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.customerRepo.CreateCustomer(tx, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit customer creation: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomerByPhone(phone string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(page, pageSize int) ([]models.Customer, int, error) {
	customers, total, err := s.customerRepo.GetCustomers(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, total, nil
}

func (s *customerService) UpdateCustomer(phone string, req UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomerByPhone(phone)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Email = req.Email

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.customerRepo.UpdateCustomer(tx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit customer update: %w", err)
	}
	return customer, nil
}

func (s *customerService) RecordVisit(phone string, amount float64) error {
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if amount < 0 {
		return fmt.Errorf("%w: visit amount cannot be negative", ErrValidation)
	}

	points := 0.0
	if s.cfg.LoyaltyPointsPerAmount > 0 {
		points = math.Floor(amount / s.cfg.LoyaltyPointsPerAmount)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	err = s.customerRepo.RecordVisit(tx, phone, amount, points, time.Now())
	if errors.Is(err, repositories.ErrNotFound) {
		// First visit: register the walk-in, then credit it.
		customer := &models.Customer{Phone: phone}
		if _, err := s.customerRepo.CreateCustomer(tx, customer); err != nil {
			return fmt.Errorf("failed to register customer '%s': %w", phone, err)
		}
		err = s.customerRepo.RecordVisit(tx, phone, amount, points, time.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to record visit for '%s': %w", phone, err)
	}
	return tx.Commit()
}
