package dtos

// CartLine mirrors the cashier screen payload. VariantID may be omitted
// for products without explicit variants; the resolver falls back to the
// product's default variant.
type CartLine struct {
	ProductID uint  `json:"id" binding:"required"`
	VariantID *uint `json:"variantId"`
	Quantity  int   `json:"qty" binding:"required,min=1"`
	IsBonus   bool  `json:"is_bonus"`
}

type SplitPayment struct {
	Method     string  `json:"method" binding:"required,oneof=cash debit qr"`
	Nominal    float64 `json:"nominal"`
	Keterangan *string `json:"keterangan"`
}

type CheckoutInput struct {
	Cart          []CartLine     `json:"cart" binding:"required,min=1,dive"`
	Channel       string         `json:"channel" binding:"required,oneof=online offline"`
	PaymentMethod string         `json:"paymentMethod" binding:"required,oneof=cash debit qr split"`
	Payments      []SplitPayment `json:"payments" binding:"omitempty,dive"`
	Discount      float64        `json:"discount" binding:"omitempty,gte=0"`
	CustomerMoney float64        `json:"customerMoney" binding:"omitempty,gte=0"`
}

type CheckoutResponse struct {
	Success       bool    `json:"success"`
	KodeTransaksi string  `json:"kode_transaksi"`
	GrandTotal    float64 `json:"grand_total"`
	Change        float64 `json:"change"`
}
