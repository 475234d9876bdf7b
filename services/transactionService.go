package services

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"pos-api/dtos"
	"pos-api/models"
	auditlog "pos-api/utils/log"
)

// Actor identifies the authenticated operator. Every mutating operation
// takes it explicitly; the engine never reads request-scoped globals.
type Actor struct {
	StoreID uint
	UserID  uint
	IP      string
}

type CommitResult struct {
	TransactionID uint
	Kode          string
	GrandTotal    float64
	Change        float64
}

type TransactionService interface {
	Commit(actor Actor, input dtos.CheckoutInput) (*CommitResult, error)
	Update(actor Actor, transactionID uint, input dtos.CheckoutInput) (*CommitResult, error)
	Delete(actor Actor, transactionID uint) error
}

type transactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) TransactionService {
	return &transactionService{db: db}
}

type resolvedLine struct {
	ProductID uint
	VariantID uint
	Quantity  int
	Price     float64
	Subtotal  float64
}

// Commit runs the whole checkout pipeline inside one DB transaction:
// resolve cart, price, reconcile payments, decrement stock, persist the
// header/detail/payment graph. Any failure rolls everything back.
func (s *transactionService) Commit(actor Actor, input dtos.CheckoutInput) (*CommitResult, error) {
	var result *CommitResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		lines, total, err := resolveCart(tx, actor.StoreID, input.Channel, input.Cart)
		if err != nil {
			return err
		}

		grandTotal := total - input.Discount
		if grandTotal < 0 {
			grandTotal = 0
		}

		payments, change, err := reconcilePayments(input.PaymentMethod, grandTotal, input.CustomerMoney, input.Payments)
		if err != nil {
			return err
		}

		trx := models.Transaction{
			Kode:          generateKode(),
			StoreID:       actor.StoreID,
			UserID:        actor.UserID,
			Channel:       input.Channel,
			PaymentMethod: input.PaymentMethod,
			Total:         total,
			Discount:      input.Discount,
			GrandTotal:    grandTotal,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		if err := writeDetails(tx, trx.ID, lines); err != nil {
			return err
		}

		for i := range payments {
			payments[i].TransactionID = trx.ID
		}
		if err := tx.Create(&payments).Error; err != nil {
			return err
		}

		userID := actor.UserID
		description := fmt.Sprintf("Transaction '%s' committed", trx.Kode)
		if err := auditlog.CreateTransactionAuditLog(tx, "create", trx.ID, nil, &trx, &userID, actor.IP, description); err != nil {
			return err
		}

		result = &CommitResult{
			TransactionID: trx.ID,
			Kode:          trx.Kode,
			GrandTotal:    grandTotal,
			Change:        change,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update reverses the old lines' stock, deletes the old detail/payment
// rows, then re-runs the pipeline against the same header row.
func (s *transactionService) Update(actor Actor, transactionID uint, input dtos.CheckoutInput) (*CommitResult, error) {
	var trx models.Transaction
	if err := s.db.Preload("Details").First(&trx, transactionID).Error; err != nil {
		return nil, err
	}
	if trx.StoreID != actor.StoreID {
		return nil, ErrUnauthorized
	}

	oldCopy := trx
	var result *CommitResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, detail := range trx.Details {
			if err := restoreDetail(tx, detail); err != nil {
				return err
			}
		}

		if err := tx.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionPayment{}).Error; err != nil {
			return err
		}

		lines, total, err := resolveCart(tx, actor.StoreID, input.Channel, input.Cart)
		if err != nil {
			return err
		}

		grandTotal := total - input.Discount
		if grandTotal < 0 {
			grandTotal = 0
		}

		payments, change, err := reconcilePayments(input.PaymentMethod, grandTotal, input.CustomerMoney, input.Payments)
		if err != nil {
			return err
		}

		trx.Channel = input.Channel
		trx.PaymentMethod = input.PaymentMethod
		trx.Total = total
		trx.Discount = input.Discount
		trx.GrandTotal = grandTotal
		trx.Details = nil
		trx.Payments = nil
		if err := tx.Save(&trx).Error; err != nil {
			return err
		}

		if err := writeDetails(tx, trx.ID, lines); err != nil {
			return err
		}

		for i := range payments {
			payments[i].TransactionID = trx.ID
		}
		if err := tx.Create(&payments).Error; err != nil {
			return err
		}

		userID := actor.UserID
		description := fmt.Sprintf("Transaction '%s' updated", trx.Kode)
		if err := auditlog.CreateTransactionAuditLog(tx, "update", trx.ID, &oldCopy, &trx, &userID, actor.IP, description); err != nil {
			return err
		}

		result = &CommitResult{
			TransactionID: trx.ID,
			Kode:          trx.Kode,
			GrandTotal:    grandTotal,
			Change:        change,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete reverses stock for every line and removes the whole graph.
func (s *transactionService) Delete(actor Actor, transactionID uint) error {
	var trx models.Transaction
	if err := s.db.Preload("Details").First(&trx, transactionID).Error; err != nil {
		return err
	}
	if trx.StoreID != actor.StoreID {
		return ErrUnauthorized
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, detail := range trx.Details {
			if err := restoreDetail(tx, detail); err != nil {
				return err
			}
		}

		if err := tx.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionPayment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Transaction{}, trx.ID).Error; err != nil {
			return err
		}

		userID := actor.UserID
		description := fmt.Sprintf("Transaction '%s' deleted", trx.Kode)
		return auditlog.CreateTransactionAuditLog(tx, "delete", trx.ID, &trx, nil, &userID, actor.IP, description)
	})
}

// resolveCart validates every line against the catalog and resolves the
// effective unit price for the channel. Read-only: stock is checked here
// but only mutated at commit time.
func resolveCart(tx *gorm.DB, storeID uint, channel string, cart []dtos.CartLine) ([]resolvedLine, float64, error) {
	lines := make([]resolvedLine, 0, len(cart))
	total := 0.0

	for _, entry := range cart {
		var product models.Product
		if err := tx.Preload("Variants").
			Where("id = ? AND store_id = ?", entry.ProductID, storeID).
			First(&product).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, 0, fmt.Errorf("%w (produk %d)", ErrInvalidProduct, entry.ProductID)
			}
			return nil, 0, err
		}

		variant, ok := pickVariant(product, entry.VariantID)
		if !ok {
			return nil, 0, fmt.Errorf("%w (produk %d)", ErrInvalidProduct, entry.ProductID)
		}

		if entry.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w (produk %d)", ErrInvalidProduct, entry.ProductID)
		}
		if variant.Stock < entry.Quantity {
			return nil, 0, fmt.Errorf("%w ('%s' tersisa %d, diminta %d)",
				ErrInsufficientStock, product.Name, variant.Stock, entry.Quantity)
		}

		price := 0.0
		if !entry.IsBonus {
			if channel == "online" {
				price = variant.OnlinePrice
			} else {
				price = variant.OfflinePrice
			}
		}

		subtotal := price * float64(entry.Quantity)
		total += subtotal

		lines = append(lines, resolvedLine{
			ProductID: product.ID,
			VariantID: variant.ID,
			Quantity:  entry.Quantity,
			Price:     price,
			Subtotal:  subtotal,
		})
	}

	return lines, total, nil
}

func pickVariant(product models.Product, variantID *uint) (models.Variant, bool) {
	if variantID != nil {
		for _, v := range product.Variants {
			if v.ID == *variantID {
				return v, true
			}
		}
		return models.Variant{}, false
	}
	if len(product.Variants) == 0 {
		return models.Variant{}, false
	}
	return product.Variants[0], true
}

// reconcilePayments normalizes the tender list and computes change. The
// change is informational only; it is never persisted.
func reconcilePayments(method string, grandTotal, customerMoney float64, splits []dtos.SplitPayment) ([]models.TransactionPayment, float64, error) {
	singleNote := "Single Payment"

	switch method {
	case "split":
		payments := make([]models.TransactionPayment, 0, len(splits))
		totalPaid := 0.0
		for _, split := range splits {
			if split.Nominal <= 0 {
				continue
			}
			payments = append(payments, models.TransactionPayment{
				Method:     split.Method,
				Nominal:    split.Nominal,
				Keterangan: split.Keterangan,
			})
			totalPaid += split.Nominal
		}
		if len(payments) == 0 {
			return nil, 0, ErrEmptySplit
		}
		if totalPaid < grandTotal {
			return nil, 0, fmt.Errorf("%w (dibayar %.0f, grand total %.0f)", ErrInsufficientPayment, totalPaid, grandTotal)
		}
		return payments, totalPaid - grandTotal, nil

	case "cash":
		if customerMoney < grandTotal {
			return nil, 0, fmt.Errorf("%w (dibayar %.0f, grand total %.0f)", ErrInsufficientPayment, customerMoney, grandTotal)
		}
		return []models.TransactionPayment{{
			Method:     "cash",
			Nominal:    customerMoney,
			Keterangan: &singleNote,
		}}, customerMoney - grandTotal, nil

	default:
		// debit/qr: the tendered amount is forced to the grand total,
		// so no change is possible.
		return []models.TransactionPayment{{
			Method:     method,
			Nominal:    grandTotal,
			Keterangan: &singleNote,
		}}, 0, nil
	}
}

func writeDetails(tx *gorm.DB, transactionID uint, lines []resolvedLine) error {
	for _, line := range lines {
		variantID := line.VariantID
		detail := models.TransactionDetail{
			TransactionID: transactionID,
			ProductID:     line.ProductID,
			VariantID:     &variantID,
			Quantity:      line.Quantity,
			Price:         line.Price,
			Subtotal:      line.Subtotal,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
		if err := decrementStock(tx, variantID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// decrementStock is a single atomic subtract-with-floor. The advisory
// check in resolveCart cannot close the race between two concurrent
// commits on the same variant; the affected-row count here does.
func decrementStock(tx *gorm.DB, variantID uint, qty int) error {
	res := tx.Model(&models.Variant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w (varian %d)", ErrInsufficientStock, variantID)
	}
	return nil
}

func incrementStock(tx *gorm.DB, variantID uint, qty int) error {
	return tx.Model(&models.Variant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

// restoreDetail puts a committed line's quantity back. Rows written by
// this code always carry a variant reference so the lookup is exact;
// legacy rows without one fall back to price matching, then to the
// product's first variant.
func restoreDetail(tx *gorm.DB, detail models.TransactionDetail) error {
	if detail.VariantID != nil {
		return incrementStock(tx, *detail.VariantID, detail.Quantity)
	}

	var variants []models.Variant
	if err := tx.Where("product_id = ?", detail.ProductID).
		Order("id").Find(&variants).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}

	target := variants[0]
	for _, v := range variants {
		if v.OnlinePrice == detail.Price || v.OfflinePrice == detail.Price {
			target = v
			break
		}
	}
	return incrementStock(tx, target.ID, detail.Quantity)
}

func generateKode() string {
	return fmt.Sprintf("TRX-%d-%03d", time.Now().Unix(), rand.Intn(1000))
}
