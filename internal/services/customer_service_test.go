package services

import (
	"errors"
	"testing"

	"biryanipos_backend/internal/models"
)

func newCustomerFixture() (CustomerService, *mockCustomerRepo) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(newMockTxManager(), repo, models.DefaultAppConfig())
	return svc, repo
}

func TestCreateCustomerRejectsDuplicatePhone(t *testing.T) {
	svc, _ := newCustomerFixture()

	name := "Anita"
	if _, err := svc.CreateCustomer(CreateCustomerRequest{Phone: "9876543210", Name: &name}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if _, err := svc.CreateCustomer(CreateCustomerRequest{Phone: "9876543210"}); !errors.Is(err, ErrDuplicateRecord) {
		t.Errorf("got %v, want ErrDuplicateRecord", err)
	}
}

// A settled bill for an unknown phone registers the walk-in and credits
// the visit in the same transaction.
func TestRecordVisitCreatesWalkIn(t *testing.T) {
	svc, _ := newCustomerFixture()

	if err := svc.RecordVisit("9000000001", 1000); err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}

	customer, err := svc.GetCustomerByPhone("9000000001")
	if err != nil {
		t.Fatalf("GetCustomerByPhone: %v", err)
	}
	if customer.VisitCount != 1 || customer.TotalSpent != 1000 {
		t.Errorf("visits/spent = %d/%v, want 1/1000", customer.VisitCount, customer.TotalSpent)
	}
	// Default programme: one point per 100 spent, floored.
	if customer.LoyaltyPoints != 10 {
		t.Errorf("points = %v, want 10", customer.LoyaltyPoints)
	}
}

func TestRecordVisitAccumulates(t *testing.T) {
	svc, _ := newCustomerFixture()

	if err := svc.RecordVisit("9000000002", 450); err != nil {
		t.Fatalf("first visit: %v", err)
	}
	if err := svc.RecordVisit("9000000002", 260); err != nil {
		t.Fatalf("second visit: %v", err)
	}

	customer, _ := svc.GetCustomerByPhone("9000000002")
	if customer.VisitCount != 2 || customer.TotalSpent != 710 {
		t.Errorf("visits/spent = %d/%v, want 2/710", customer.VisitCount, customer.TotalSpent)
	}
	// Points floor per visit: 4 + 2, not floor(7.1).
	if customer.LoyaltyPoints != 6 {
		t.Errorf("points = %v, want 6", customer.LoyaltyPoints)
	}
}

func TestRecordVisitValidation(t *testing.T) {
	svc, _ := newCustomerFixture()

	if err := svc.RecordVisit("", 100); !errors.Is(err, ErrValidation) {
		t.Errorf("empty phone: got %v, want ErrValidation", err)
	}
	if err := svc.RecordVisit("9000000003", -5); !errors.Is(err, ErrValidation) {
		t.Errorf("negative amount: got %v, want ErrValidation", err)
	}
}

func TestUpdateCustomerContactDetails(t *testing.T) {
	svc, _ := newCustomerFixture()
	if _, err := svc.CreateCustomer(CreateCustomerRequest{Phone: "9000000004"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	name := "Suresh"
	email := "suresh@example.com"
	updated, err := svc.UpdateCustomer("9000000004", UpdateCustomerRequest{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Suresh" || updated.Email == nil || *updated.Email != "suresh@example.com" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.UpdateCustomer("0000000000", UpdateCustomerRequest{}); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("got %v, want ErrCustomerNotFound", err)
	}
}
