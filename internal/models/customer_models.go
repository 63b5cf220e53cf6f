package models

import "time"

// Customer is the loyalty record keyed by phone number. The core only
// writes to it through the visit-recording collaborator after a
// completed payment.
type Customer struct {
	ID            int64      `json:"id" db:"id"`
	Phone         string     `json:"phone" db:"phone" binding:"required"`
	Name          *string    `json:"name,omitempty" db:"name"`
	Email         *string    `json:"email,omitempty" db:"email"`
	LoyaltyPoints float64    `json:"loyalty_points" db:"loyalty_points"`
	TotalSpent    float64    `json:"total_spent" db:"total_spent"`
	VisitCount    int        `json:"visit_count" db:"visit_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	LastVisit     *time.Time `json:"last_visit,omitempty" db:"last_visit"`
}
