package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-api/dtos"
	"pos-api/models"
)

type ReportService interface {
	SalesReport(actor Actor, start, end time.Time) (*dtos.SalesReportResponse, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// AllocateDiscountShare distributes a transaction-level discount down to
// one line, proportional to the line's share of the gross total. A
// zero-gross transaction yields a zero share rather than dividing by zero.
func AllocateDiscountShare(lineGross, transactionGross, discount float64) float64 {
	if transactionGross == 0 {
		return 0
	}
	share := decimal.NewFromFloat(lineGross).
		Div(decimal.NewFromFloat(transactionGross)).
		Mul(decimal.NewFromFloat(discount))
	result, _ := share.Float64()
	return result
}

// SalesReport aggregates, per calendar day in range, per category:
// quantity, gross, discount share and net, plus daily cash/non-cash
// totals. Categories are matched case-insensitively on their label.
func (s *reportService) SalesReport(actor Actor, start, end time.Time) (*dtos.SalesReportResponse, error) {
	var transactions []models.Transaction
	if err := s.db.
		Preload("Details.Product.Category").
		Preload("Payments").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", actor.StoreID, start, end.Add(24*time.Hour)).
		Order("created_at").
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	type categoryAgg struct {
		label         string
		quantity      int
		gross         float64
		discountShare float64
	}
	type dayAgg struct {
		categories map[string]*categoryAgg
		order      []string
		cash       float64
		nonCash    float64
	}

	days := make(map[string]*dayAgg)
	dayOrder := make([]string, 0)

	getDay := func(date string) *dayAgg {
		day, ok := days[date]
		if !ok {
			day = &dayAgg{categories: make(map[string]*categoryAgg)}
			days[date] = day
			dayOrder = append(dayOrder, date)
		}
		return day
	}

	for _, trx := range transactions {
		date := trx.CreatedAt.Format("2006-01-02")
		day := getDay(date)

		for _, detail := range trx.Details {
			label := detail.Product.Category.Name
			key := strings.ToLower(strings.TrimSpace(label))

			agg, ok := day.categories[key]
			if !ok {
				agg = &categoryAgg{label: label}
				day.categories[key] = agg
				day.order = append(day.order, key)
			}

			share := AllocateDiscountShare(detail.Subtotal, trx.Total, trx.Discount)
			agg.quantity += detail.Quantity
			agg.gross += detail.Subtotal
			agg.discountShare += share
		}

		for _, payment := range trx.Payments {
			if payment.Method == "cash" {
				day.cash += payment.Nominal
			} else {
				day.nonCash += payment.Nominal
			}
		}
	}

	resp := &dtos.SalesReportResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      make([]dtos.DailySales, 0, len(dayOrder)),
	}

	for _, date := range dayOrder {
		day := days[date]
		daily := dtos.DailySales{
			Date:       date,
			Categories: make([]dtos.CategorySales, 0, len(day.order)),
			CashTotal:  day.cash,
			NonCash:    day.nonCash,
		}
		for _, key := range day.order {
			agg := day.categories[key]
			daily.Categories = append(daily.Categories, dtos.CategorySales{
				Category:      agg.label,
				Quantity:      agg.quantity,
				Gross:         agg.gross,
				DiscountShare: agg.discountShare,
				Net:           agg.gross - agg.discountShare,
			})
		}
		resp.Days = append(resp.Days, daily)
	}

	return resp, nil
}
