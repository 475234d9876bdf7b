package dtos

type CategorySales struct {
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity"`
	Gross         float64 `json:"gross"`
	DiscountShare float64 `json:"discount_share"`
	Net           float64 `json:"net"`
}

type DailySales struct {
	Date       string          `json:"date"`
	Categories []CategorySales `json:"categories"`
	CashTotal  float64         `json:"cash_total"`
	NonCash    float64         `json:"non_cash_total"`
}

type SalesReportResponse struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Days      []DailySales `json:"days"`
}
