package services

import (
	"math"
	"testing"
	"time"

	"pos-api/dtos"
)

func TestAllocateDiscountShareProportional(t *testing.T) {
	// 1000 gross split 600/400 with a 100 discount.
	share600 := AllocateDiscountShare(600, 1000, 100)
	share400 := AllocateDiscountShare(400, 1000, 100)

	if share600 != 60 {
		t.Fatalf("expected share 60 for the 600 line, got %v", share600)
	}
	if share400 != 40 {
		t.Fatalf("expected share 40 for the 400 line, got %v", share400)
	}
}

func TestAllocateDiscountShareZeroGross(t *testing.T) {
	if share := AllocateDiscountShare(0, 0, 5000); share != 0 {
		t.Fatalf("expected zero share on zero-gross transaction, got %v", share)
	}
}

func TestAllocateDiscountShareSumsToDiscount(t *testing.T) {
	lines := []float64{12500, 7300, 199}
	gross := 0.0
	for _, l := range lines {
		gross += l
	}
	discount := 1500.0

	sum := 0.0
	for _, l := range lines {
		sum += AllocateDiscountShare(l, gross, discount)
	}
	if math.Abs(sum-discount) > 0.01 {
		t.Fatalf("expected shares to sum to %.0f, got %v", discount, sum)
	}
}

func TestAllocateDiscountShareFullDiscountLine(t *testing.T) {
	if share := AllocateDiscountShare(500, 500, 200); share != 200 {
		t.Fatalf("expected the only line to absorb the whole discount, got %v", share)
	}
}

func TestSalesReportAggregatesPerDayAndCategory(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	txSvc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	// Cash sale with a flat discount, paid exactly.
	if _, err := txSvc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 2}},
		Channel:       "offline",
		PaymentMethod: "cash",
		Discount:      1000,
		CustomerMoney: 9000,
	}); err != nil {
		t.Fatalf("commit cash sale: %v", err)
	}

	// QR sale, no discount.
	if _, err := txSvc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	}); err != nil {
		t.Fatalf("commit qr sale: %v", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	report, err := NewReportService(db).SalesReport(actor, today, today)
	if err != nil {
		t.Fatalf("sales report: %v", err)
	}
	if len(report.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(report.Days))
	}

	day := report.Days[0]
	if len(day.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(day.Categories))
	}

	cat := day.Categories[0]
	if cat.Category != "Minuman" {
		t.Fatalf("expected category Minuman, got %s", cat.Category)
	}
	if cat.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cat.Quantity)
	}
	if cat.Gross != 15000 {
		t.Fatalf("expected gross 15000, got %.0f", cat.Gross)
	}
	if cat.DiscountShare != 1000 {
		t.Fatalf("expected discount share 1000, got %.0f", cat.DiscountShare)
	}
	if cat.Net != 14000 {
		t.Fatalf("expected net 14000, got %.0f", cat.Net)
	}

	if day.CashTotal != 9000 {
		t.Fatalf("expected cash total 9000, got %.0f", day.CashTotal)
	}
	if day.NonCash != 5000 {
		t.Fatalf("expected non-cash total 5000, got %.0f", day.NonCash)
	}
}

func TestSalesReportExcludesOtherStores(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	txSvc := NewTransactionService(db)

	if _, err := txSvc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	report, err := NewReportService(db).SalesReport(Actor{StoreID: fix.store.ID + 1}, today, today)
	if err != nil {
		t.Fatalf("sales report: %v", err)
	}
	if len(report.Days) != 0 {
		t.Fatalf("expected empty report for a foreign store, got %d days", len(report.Days))
	}
}
