package services

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pos-api/dtos"
	"pos-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// :memory: is per-connection; keep the pool at one conn so every
	// query sees the same database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	store     models.Store
	otherUser models.User
	product   models.Product
	variant   models.Variant
}

func seedCatalog(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	store := models.Store{Name: "Toko Uji"}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	user := models.User{Username: "kasir", Password: "x", Role: "cashier", StoreID: store.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	category := models.Category{StoreID: store.ID, Name: "Minuman"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	product := models.Product{
		StoreID:    store.ID,
		CategoryID: category.ID,
		Name:       "Es Teh",
		Variants: []models.Variant{
			{Stock: 10, OnlinePrice: 6000, OfflinePrice: 5000},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return fixture{store: store, otherUser: user, product: product, variant: product.Variants[0]}
}

func variantStock(t *testing.T, db *gorm.DB, variantID uint) int {
	t.Helper()
	var v models.Variant
	if err := db.First(&v, variantID).Error; err != nil {
		t.Fatalf("load variant: %v", err)
	}
	return v.Stock
}

func TestCommitCashCheckout(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	result, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 2}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 10000,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if result.GrandTotal != 10000 {
		t.Fatalf("expected grand total 10000, got %.0f", result.GrandTotal)
	}
	if result.Change != 0 {
		t.Fatalf("expected zero change, got %.0f", result.Change)
	}
	if !strings.HasPrefix(result.Kode, "TRX-") {
		t.Fatalf("unexpected kode format: %s", result.Kode)
	}

	if got := variantStock(t, db, fix.variant.ID); got != 8 {
		t.Fatalf("expected stock 8 after sale, got %d", got)
	}

	var detail models.TransactionDetail
	if err := db.Where("transaction_id = ?", result.TransactionID).First(&detail).Error; err != nil {
		t.Fatalf("load detail: %v", err)
	}
	if detail.VariantID == nil || *detail.VariantID != fix.variant.ID {
		t.Fatalf("expected detail to carry variant %d, got %v", fix.variant.ID, detail.VariantID)
	}
	if detail.Price != 5000 || detail.Subtotal != 10000 {
		t.Fatalf("expected offline pricing 5000/10000, got %.0f/%.0f", detail.Price, detail.Subtotal)
	}

	var auditCount int64
	db.Model(&models.AuditLog{}).Where("entity_type = ? AND action = ?", "transaction", "create").Count(&auditCount)
	if auditCount != 1 {
		t.Fatalf("expected 1 audit row, got %d", auditCount)
	}
}

func TestCommitOnlineChannelUsesOnlinePrice(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	result, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "online",
		PaymentMethod: "qr",
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if result.GrandTotal != 6000 {
		t.Fatalf("expected online price 6000, got %.0f", result.GrandTotal)
	}
}

func TestCommitBonusLineConsumesStockAtZeroPrice(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	result, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart: []dtos.CartLine{
			{ProductID: fix.product.ID, Quantity: 2},
			{ProductID: fix.product.ID, Quantity: 1, IsBonus: true},
		},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 10000,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if result.GrandTotal != 10000 {
		t.Fatalf("bonus line must not contribute to total, got %.0f", result.GrandTotal)
	}
	if got := variantStock(t, db, fix.variant.ID); got != 7 {
		t.Fatalf("bonus line must still consume stock, expected 7, got %d", got)
	}
}

func TestCommitDiscountFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	result, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "cash",
		Discount:      999999,
		CustomerMoney: 0,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if result.GrandTotal != 0 {
		t.Fatalf("expected grand total floored at 0, got %.0f", result.GrandTotal)
	}
}

func TestCommitInsufficientPaymentRollsBack(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	_, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 2}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 3000,
	})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	if got := variantStock(t, db, fix.variant.ID); got != 10 {
		t.Fatalf("stock must be untouched after rollback, got %d", got)
	}
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no transaction rows after rollback, got %d", count)
	}
}

func TestCommitInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	_, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 11}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 999999,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var detailCount, paymentCount int64
	db.Model(&models.TransactionDetail{}).Count(&detailCount)
	db.Model(&models.TransactionPayment{}).Count(&paymentCount)
	if detailCount != 0 || paymentCount != 0 {
		t.Fatalf("expected empty graph after rollback, got %d details / %d payments", detailCount, paymentCount)
	}
}

func TestCommitUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)

	_, err := svc.Commit(Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: 9999, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestUpdateSameCartIsStockNeutral(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	input := dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 3}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 20000,
	}
	committed, err := svc.Commit(actor, input)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	updated, err := svc.Update(actor, committed.TransactionID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Kode != committed.Kode {
		t.Fatalf("update must keep the kode, got %s vs %s", updated.Kode, committed.Kode)
	}
	if got := variantStock(t, db, fix.variant.ID); got != 7 {
		t.Fatalf("identical cart update must be stock-neutral, expected 7, got %d", got)
	}

	var detailCount int64
	db.Model(&models.TransactionDetail{}).Where("transaction_id = ?", committed.TransactionID).Count(&detailCount)
	if detailCount != 1 {
		t.Fatalf("expected exactly 1 detail after rewrite, got %d", detailCount)
	}
}

func TestUpdateChangedQuantityAdjustsStock(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	committed, err := svc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 5}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 30000,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if _, err := svc.Update(actor, committed.TransactionID, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 2}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 30000,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := variantStock(t, db, fix.variant.ID); got != 8 {
		t.Fatalf("expected stock 8 after shrinking the sale, got %d", got)
	}
}

func TestUpdateForeignStoreRejected(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	committed, err := svc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	intruder := Actor{StoreID: fix.store.ID + 1, UserID: fix.otherUser.ID}
	if _, err := svc.Update(intruder, committed.TransactionID, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if got := variantStock(t, db, fix.variant.ID); got != 9 {
		t.Fatalf("rejected update must not touch stock, got %d", got)
	}
}

func TestDeleteRestoresStockAndRemovesGraph(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	committed, err := svc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 4}},
		Channel:       "offline",
		PaymentMethod: "cash",
		CustomerMoney: 20000,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := svc.Delete(actor, committed.TransactionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got := variantStock(t, db, fix.variant.ID); got != 10 {
		t.Fatalf("expected stock fully restored to 10, got %d", got)
	}

	var trxCount, detailCount, paymentCount int64
	db.Model(&models.Transaction{}).Count(&trxCount)
	db.Model(&models.TransactionDetail{}).Count(&detailCount)
	db.Model(&models.TransactionPayment{}).Count(&paymentCount)
	if trxCount != 0 || detailCount != 0 || paymentCount != 0 {
		t.Fatalf("expected empty graph, got %d/%d/%d", trxCount, detailCount, paymentCount)
	}
}

func TestDeleteForeignStoreRejected(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)
	svc := NewTransactionService(db)
	actor := Actor{StoreID: fix.store.ID, UserID: fix.otherUser.ID}

	committed, err := svc.Commit(actor, dtos.CheckoutInput{
		Cart:          []dtos.CartLine{{ProductID: fix.product.ID, Quantity: 1}},
		Channel:       "offline",
		PaymentMethod: "qr",
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := svc.Delete(Actor{StoreID: fix.store.ID + 1}, committed.TransactionID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDecrementStockFloor(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)

	if err := decrementStock(db, fix.variant.ID, 10); err != nil {
		t.Fatalf("expected decrement to the floor to succeed: %v", err)
	}
	if got := variantStock(t, db, fix.variant.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	if err := decrementStock(db, fix.variant.ID, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock below the floor, got %v", err)
	}
	if got := variantStock(t, db, fix.variant.ID); got != 0 {
		t.Fatalf("failed decrement must not change stock, got %d", got)
	}
}

func TestRestoreDetailLegacyRowFallsBackToPriceMatch(t *testing.T) {
	db := newTestDB(t)
	fix := seedCatalog(t, db)

	second := models.Variant{ProductID: fix.product.ID, Stock: 5, OnlinePrice: 9000, OfflinePrice: 8000}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("seed second variant: %v", err)
	}

	// Legacy row: no variant reference, priced like the second variant.
	if err := restoreDetail(db, models.TransactionDetail{
		ProductID: fix.product.ID,
		Quantity:  3,
		Price:     8000,
	}); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if got := variantStock(t, db, second.ID); got != 8 {
		t.Fatalf("expected price-matched variant restored to 8, got %d", got)
	}
	if got := variantStock(t, db, fix.variant.ID); got != 10 {
		t.Fatalf("first variant must be untouched, got %d", got)
	}
}
