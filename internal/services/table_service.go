package services

import (
	"errors"
	"fmt"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
)

// CreateTableRequest registers a physical table on the floor.
type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
}

// TableService manages the restaurant floor layout. Occupancy itself is
// driven by the order lifecycle, not by direct calls.
type TableService interface {
	CreateTable(req CreateTableRequest) (*models.RestaurantTable, error)
	GetTables() ([]models.RestaurantTable, error)
	GetTableByNumber(tableNumber string) (*models.RestaurantTable, error)
	UpdateTable(id int64, req CreateTableRequest) (*models.RestaurantTable, error)
	DeleteTable(id int64) error
}

type tableService struct {
	txManager repositories.TxManager
	tableRepo repositories.TableRepository
}

// NewTableService creates a new TableService.
func NewTableService(txManager repositories.TxManager, tableRepo repositories.TableRepository) TableService {
	return &tableService{txManager: txManager, tableRepo: tableRepo}
}

func (s *tableService) CreateTable(req CreateTableRequest) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableAvailable,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.tableRepo.CreateTable(tx, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table creation: %w", err)
	}
	return table, nil
}

func (s *tableService) GetTables() ([]models.RestaurantTable, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByNumber(tableNumber string) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetTableByNumber(tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *tableService) UpdateTable(id int64, req CreateTableRequest) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{
		ID:          id,
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableAvailable,
	}

	// Preserve current occupancy; edits only touch layout fields.
	existing, err := s.tableRepo.GetTableByNumber(req.TableNumber)
	if err == nil && existing.ID == id {
		table.Status = existing.Status
		table.CurrentOrderID = existing.CurrentOrderID
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tableRepo.UpdateTable(tx, table); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table update: %w", err)
	}
	return table, nil
}

func (s *tableService) DeleteTable(id int64) error {
	tx, err := s.txManager.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tableRepo.DeleteTable(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return tx.Commit()
}
