package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines the interface for customer loyalty records.
type CustomerRepository interface {
	CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomerByPhone(phone string) (*models.Customer, error)
	GetCustomers(page, pageSize int) ([]models.Customer, int, error)
	UpdateCustomer(executor SQLExecutor, customer *models.Customer) error
	// RecordVisit bumps the visit aggregates for an existing customer.
	RecordVisit(executor SQLExecutor, phone string, amount, points float64, visitedAt time.Time) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (phone, name, email, loyalty_points, total_spent, visit_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		customer.Phone, customer.Name, customer.Email,
		customer.LoyaltyPoints, customer.TotalSpent, customer.VisitCount, customer.CreatedAt,
	).Scan(&customer.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: customer phone '%s' already exists", ErrDuplicateKey, customer.Phone)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomerByPhone(phone string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, phone, name, email, loyalty_points, total_spent, visit_count, created_at, last_visit
	          FROM customers WHERE phone = $1`
	err := r.db.QueryRow(query, phone).Scan(
		&customer.ID, &customer.Phone, &customer.Name, &customer.Email,
		&customer.LoyaltyPoints, &customer.TotalSpent, &customer.VisitCount,
		&customer.CreatedAt, &customer.LastVisit,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by phone '%s': %v", ErrDatabaseError, phone, err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(page, pageSize int) ([]models.Customer, int, error) {
	customers := []models.Customer{}
	totalCount := 0
	query := `SELECT id, phone, name, email, loyalty_points, total_spent, visit_count, created_at, last_visit,
	            COUNT(*) OVER() AS total_count
	          FROM customers ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Phone, &customer.Name, &customer.Email,
			&customer.LoyaltyPoints, &customer.TotalSpent, &customer.VisitCount,
			&customer.CreatedAt, &customer.LastVisit, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customers: %v", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

func (r *customerRepository) UpdateCustomer(executor SQLExecutor, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, email = $2 WHERE phone = $3`
	result, err := executor.Exec(query, customer.Name, customer.Email, customer.Phone)
	if err != nil {
		return fmt.Errorf("%w: updating customer '%s': %v", ErrDatabaseError, customer.Phone, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) RecordVisit(executor SQLExecutor, phone string, amount, points float64, visitedAt time.Time) error {
	query := `UPDATE customers SET
	            visit_count = visit_count + 1,
	            total_spent = total_spent + $1,
	            loyalty_points = loyalty_points + $2,
	            last_visit = $3
	          WHERE phone = $4`
	result, err := executor.Exec(query, amount, points, visitedAt, phone)
	if err != nil {
		return fmt.Errorf("%w: recording visit for customer '%s': %v", ErrDatabaseError, phone, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
