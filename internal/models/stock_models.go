package models

import "time"

// StockItem is a raw inventory unit (flour, rice, oil). Its balance is
// only ever changed through a StockTransaction; it is soft-deactivated
// rather than deleted while ledger rows reference it.
type StockItem struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name" binding:"required"`
	Unit          string     `json:"unit" db:"unit"` // KG, LITRE, PIECE, PACKET
	CurrentStock  float64    `json:"current_stock" db:"current_stock"`
	ReorderLevel  float64    `json:"reorder_level" db:"reorder_level"`
	CostPerUnit   float64    `json:"cost_per_unit" db:"cost_per_unit"`
	Supplier      *string    `json:"supplier,omitempty" db:"supplier"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	LastUpdated   time.Time  `json:"last_updated" db:"last_updated"`
	LastAuditDate *time.Time `json:"last_audit_date,omitempty" db:"last_audit_date"`
}

// IsLowStock reports whether the balance has reached the reorder level.
func (s *StockItem) IsLowStock() bool {
	return s.CurrentStock <= s.ReorderLevel
}

// StockTransactionType classifies a ledger entry. The set is closed:
// balance arithmetic is driven by the effect table below, so a new kind
// is one table entry plus its constant.
type StockTransactionType string

const (
	TxnPurchase        StockTransactionType = "PURCHASE"          // stock bought into the storeroom
	TxnIssueToKitchen  StockTransactionType = "ISSUE_TO_KITCHEN"  // moved from storeroom to kitchen
	TxnOrderDeduct     StockTransactionType = "ORDER_DEDUCT"      // auto-deducted when an order is placed
	TxnWaste           StockTransactionType = "WASTE"             // spoiled / expired / damaged
	TxnAdjustment      StockTransactionType = "ADJUSTMENT"        // manual audit correction
	TxnReturnFromOrder StockTransactionType = "RETURN_FROM_ORDER" // restored when an order is cancelled
)

// TransactionEffect is how a transaction type acts on the item balance.
type TransactionEffect int

const (
	EffectAdd      TransactionEffect = iota // balance += quantity
	EffectSubtract                          // balance -= quantity, rejected if it would go negative
	EffectSet                               // balance = quantity, stamps the audit date
)

var transactionEffects = map[StockTransactionType]TransactionEffect{
	TxnPurchase:        EffectAdd,
	TxnReturnFromOrder: EffectAdd,
	TxnIssueToKitchen:  EffectSubtract,
	TxnOrderDeduct:     EffectSubtract,
	TxnWaste:           EffectSubtract,
	TxnAdjustment:      EffectSet,
}

// Effect returns the balance semantics for the type; ok is false for an
// unknown type.
func (t StockTransactionType) Effect() (TransactionEffect, bool) {
	e, ok := transactionEffects[t]
	return e, ok
}

// SignedQuantity is the ledger delta this entry contributed, given the
// balance it was applied against. Replaying signed quantities in
// timestamp order reproduces the current balance.
func (t *StockTransaction) SignedQuantity(balanceBefore float64) float64 {
	effect, _ := t.TransactionType.Effect()
	switch effect {
	case EffectAdd:
		return t.Quantity
	case EffectSubtract:
		return -t.Quantity
	default: // EffectSet
		return t.Quantity - balanceBefore
	}
}

// StockTransaction is an immutable, append-only ledger entry. Rows are
// never updated or deleted once written.
type StockTransaction struct {
	ID               int64                `json:"id" db:"id"`
	StockItemID      int64                `json:"stock_item_id" db:"stock_item_id"`
	TransactionType  StockTransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity         float64              `json:"quantity" db:"quantity"`
	UnitCostSnapshot float64              `json:"unit_cost_snapshot" db:"unit_cost_snapshot"` // for COGS
	Reason           *string              `json:"reason,omitempty" db:"reason"`
	WasteCategory    *string              `json:"waste_category,omitempty" db:"waste_category"` // SPOILAGE, PREP_ERROR, DAMAGED, CUSTOMER_RETURN
	ExpiryDate       *time.Time           `json:"expiry_date,omitempty" db:"expiry_date"`      // for PURCHASE entries
	OrderID          *int64               `json:"order_id,omitempty" db:"order_id"`
	TransactionDate  time.Time            `json:"transaction_date" db:"transaction_date"`

	// Denormalised for list views.
	StockItemName string `json:"stock_item_name,omitempty"`
	StockItemUnit string `json:"stock_item_unit,omitempty"`
}
