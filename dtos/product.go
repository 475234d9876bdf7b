package dtos

type VariantInput struct {
	Name         *string `json:"name"`
	Stock        int     `json:"stock" binding:"gte=0"`
	OnlinePrice  float64 `json:"online_price" binding:"gte=0"`
	OfflinePrice float64 `json:"offline_price" binding:"gte=0"`
	ImageURL     *string `json:"image_url"`
}

type ProductInput struct {
	Name        string         `json:"name" binding:"required"`
	CategoryID  uint           `json:"category_id" binding:"required"`
	HasVariants bool           `json:"has_variants"`
	ImageURL    *string        `json:"image_url"`
	Variants    []VariantInput `json:"variants" binding:"omitempty,dive"`

	// Flat pricing used when has_variants is false; becomes the
	// implicit Default variant.
	Stock        int     `json:"stock" binding:"gte=0"`
	OnlinePrice  float64 `json:"online_price" binding:"gte=0"`
	OfflinePrice float64 `json:"offline_price" binding:"gte=0"`
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}
