package services

import (
	"errors"
	"testing"

	"biryanipos_backend/internal/models"
)

type paymentFixture struct {
	svc          PaymentService
	orderRepo    *mockOrderRepo
	paymentRepo  *mockPaymentRepo
	tableRepo    *mockTableRepo
	customerRepo *mockCustomerRepo
	txManager    *mockTxManager
	notifier     *mockNotifier
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orderRepo:    newMockOrderRepo(),
		paymentRepo:  newMockPaymentRepo(),
		tableRepo:    newMockTableRepo(),
		customerRepo: newMockCustomerRepo(),
		txManager:    newMockTxManager(),
		notifier:     newMockNotifier(),
	}
	cfg := models.DefaultAppConfig()
	customerSvc := NewCustomerService(f.txManager, f.customerRepo, cfg)
	f.svc = NewPaymentService(
		f.txManager, f.orderRepo, f.paymentRepo, f.tableRepo,
		customerSvc, NewTaxCalculator(cfg), f.notifier, cfg,
	)
	return f
}

// seedOrder stores a served 1000 rupee single-line order.
func (f *paymentFixture) seedOrder(t *testing.T, gstEnabled bool) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderType:     models.OrderTypeTakeaway,
		Status:        models.StatusServed,
		PaymentStatus: models.PaymentPending,
		GSTEnabled:    gstEnabled,
	}
	if _, err := f.orderRepo.CreateOrder(nil, order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	item := &models.OrderItem{OrderID: order.ID, MenuItemID: 1, Quantity: 1, Price: 1000, GSTPercent: 5, Status: models.StatusServed}
	if _, err := f.orderRepo.CreateOrderItem(nil, item); err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	return order
}

func TestProcessPaymentCashWithChange(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(t, false)

	mode := models.ModeCash
	payment, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{
		PaymentMode: &mode, AmountReceived: 1100,
	})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	if payment.TotalAmount != 1000 {
		t.Errorf("total = %v, want 1000 with GST off", payment.TotalAmount)
	}
	if payment.ChangeReturned != 100 {
		t.Errorf("change = %v, want 100", payment.ChangeReturned)
	}
	if payment.PaymentMode != models.ModeCash {
		t.Errorf("mode = %s, want CASH", payment.PaymentMode)
	}
	if len(payment.Details) != 1 || payment.Details[0].Amount != 1100 {
		t.Errorf("details = %+v, want one CASH 1100 row", payment.Details)
	}

	settled, _ := f.orderRepo.GetOrderByID(order.ID)
	if settled.Status != models.StatusPaid || settled.PaymentStatus != models.PaymentCompleted {
		t.Errorf("order state = %s/%s, want PAID/COMPLETED", settled.Status, settled.PaymentStatus)
	}
	if settled.CompletedAt == nil {
		t.Error("settlement must stamp the completion time")
	}
}

func TestProcessPaymentSplitBecomesMixed(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(t, false)

	ref := "UPI-REF-42"
	payment, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{
		Splits: []PaymentSplitRequest{
			{PaymentMode: models.ModeCash, Amount: 600},
			{PaymentMode: models.ModeCard, Amount: 400, TransactionRef: &ref},
		},
	})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	if payment.PaymentMode != models.ModeMixed {
		t.Errorf("mode = %s, want MIXED for two tenders", payment.PaymentMode)
	}
	if payment.AmountReceived != 1000 || payment.ChangeReturned != 0 {
		t.Errorf("received/change = %v/%v, want 1000/0", payment.AmountReceived, payment.ChangeReturned)
	}
	if len(payment.Details) != 2 {
		t.Fatalf("got %d details, want 2", len(payment.Details))
	}
	sum := 0.0
	for _, d := range payment.Details {
		sum += d.Amount
	}
	if sum != payment.AmountReceived {
		t.Errorf("detail amounts sum to %v, want %v", sum, payment.AmountReceived)
	}
}

func TestProcessPaymentDiscountProration(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(t, true)

	mode := models.ModeCash
	payment, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{
		PaymentMode: &mode, AmountReceived: 840, Discount: 200,
	})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	if payment.Subtotal != 800 {
		t.Errorf("payment subtotal = %v, want discounted 800", payment.Subtotal)
	}
	if payment.CGST != 20 || payment.SGST != 20 {
		t.Errorf("prorated taxes = (%v, %v), want (20, 20)", payment.CGST, payment.SGST)
	}
	if payment.TotalAmount != 840 {
		t.Errorf("total = %v, want 840", payment.TotalAmount)
	}

	// The order keeps the pre-discount subtotal so its monetary identity
	// holds with the discount spelled out.
	settled, _ := f.orderRepo.GetOrderByID(order.ID)
	if settled.Subtotal != 1000 || settled.Discount != 200 {
		t.Errorf("order subtotal/discount = %v/%v, want 1000/200", settled.Subtotal, settled.Discount)
	}
	if got := settled.Subtotal - settled.Discount + settled.CGST + settled.SGST; got != settled.TotalAmount {
		t.Errorf("order identity broken: %v != %v", settled.TotalAmount, got)
	}
}

func TestProcessPaymentGuards(t *testing.T) {
	f := newPaymentFixture()
	mode := models.ModeCash

	t.Run("already paid", func(t *testing.T) {
		order := f.seedOrder(t, false)
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 1000}); err != nil {
			t.Fatalf("first payment: %v", err)
		}
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 1000}); !errors.Is(err, ErrAlreadyPaid) {
			t.Errorf("got %v, want ErrAlreadyPaid", err)
		}
	})

	t.Run("cancelled order", func(t *testing.T) {
		order := f.seedOrder(t, false)
		f.orderRepo.UpdateOrderStatus(nil, order.ID, models.StatusCancelled, nil)
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 1000}); !errors.Is(err, ErrInvalidState) {
			t.Errorf("got %v, want ErrInvalidState", err)
		}
	})

	t.Run("cash requires amount", func(t *testing.T) {
		order := f.seedOrder(t, false)
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode}); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("short tender", func(t *testing.T) {
		order := f.seedOrder(t, false)
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 900}); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("discount above subtotal", func(t *testing.T) {
		order := f.seedOrder(t, false)
		if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 2000, Discount: 1500}); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		if _, err := f.svc.ProcessPayment(9999, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 100}); !errors.Is(err, ErrOrderNotFound) {
			t.Errorf("got %v, want ErrOrderNotFound", err)
		}
	})
}

func TestProcessPaymentDigitalDefaultsToExactTotal(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(t, false)

	mode := models.ModeUPI
	payment, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if payment.AmountReceived != 1000 || payment.ChangeReturned != 0 {
		t.Errorf("received/change = %v/%v, want exact 1000/0", payment.AmountReceived, payment.ChangeReturned)
	}
}

func TestProcessPaymentRecordsVisitAndReleasesTable(t *testing.T) {
	f := newPaymentFixture()
	f.tableRepo.addTable(models.RestaurantTable{TableNumber: "T7", Capacity: 2, Status: models.TableOccupied})

	phone := "9876543210"
	table := "T7"
	order := f.seedOrder(t, false)
	f.orderRepo.orders[order.ID].OrderType = models.OrderTypeDineIn
	f.orderRepo.orders[order.ID].CustomerPhone = &phone
	f.orderRepo.orders[order.ID].TableNumber = &table

	mode := models.ModeCash
	if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 1000}); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	customer, err := f.customerRepo.GetCustomerByPhone(phone)
	if err != nil {
		t.Fatalf("customer not registered on first visit: %v", err)
	}
	if customer.VisitCount != 1 || customer.TotalSpent != 1000 || customer.LoyaltyPoints != 10 {
		t.Errorf("customer = visits %d spent %v points %v, want 1/1000/10",
			customer.VisitCount, customer.TotalSpent, customer.LoyaltyPoints)
	}

	released, _ := f.tableRepo.GetTableByNumber("T7")
	if released.Status != models.TableAvailable {
		t.Errorf("table = %s, want AVAILABLE after settlement", released.Status)
	}
	if len(f.notifier.updated) != 1 || len(f.notifier.tableEvents) != 1 {
		t.Errorf("events: updated=%d table=%d, want 1/1", len(f.notifier.updated), len(f.notifier.tableEvents))
	}
}

func TestGenerateBill(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(t, false)

	bill, err := f.svc.GenerateBill(order.ID)
	if err != nil {
		t.Fatalf("GenerateBill before payment: %v", err)
	}
	if bill.Payment != nil {
		t.Error("unpaid bill should have no payment section")
	}

	mode := models.ModeCash
	if _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{PaymentMode: &mode, AmountReceived: 1000}); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	bill, err = f.svc.GenerateBill(order.ID)
	if err != nil {
		t.Fatalf("GenerateBill after payment: %v", err)
	}
	if bill.Payment == nil || bill.Payment.TotalAmount != 1000 {
		t.Errorf("settled bill payment = %+v, want total 1000", bill.Payment)
	}
}
