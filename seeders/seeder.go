package seeders

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"pos-api/config"
	"pos-api/models"
)

// helper untuk pointer string
func ptrString(s string) *string {
	return &s
}

func hashPassword(plain string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("seed: hash password: %v", err)
	}
	return string(hashed)
}

func Seed() {
	// ============= Seed Store =============
	store := models.Store{Name: "Toko Berkah Jaya", Address: ptrString("Jl. Melati No. 12, Bandung")}
	config.DB.FirstOrCreate(&store, models.Store{Name: store.Name})

	// ============= Seed Users =============
	users := []models.User{
		{Username: "admin", Password: hashPassword("admin123"), Role: "admin", StoreID: store.ID},
		{Username: "cashier1", Password: hashPassword("cashier123"), Role: "cashier", StoreID: store.ID},
	}

	for _, user := range users {
		config.DB.FirstOrCreate(&user, models.User{Username: user.Username})
	}

	// ============= Seed Categories =============
	categoryNames := []string{"Minuman", "Makanan", "Snack"}
	categories := make(map[string]models.Category)
	for _, name := range categoryNames {
		category := models.Category{StoreID: store.ID, Name: name}
		config.DB.FirstOrCreate(&category, models.Category{StoreID: store.ID, Name: name})
		categories[name] = category
	}

	// ============= Seed Products =============
	products := []models.Product{
		{
			StoreID:     store.ID,
			CategoryID:  categories["Minuman"].ID,
			Name:        "Es Teh",
			HasVariants: true,
			Variants: []models.Variant{
				{Name: ptrString("Kecil"), Stock: 100, OnlinePrice: 5000, OfflinePrice: 4000},
				{Name: ptrString("Besar"), Stock: 80, OnlinePrice: 8000, OfflinePrice: 7000},
			},
		},
		{
			StoreID:     store.ID,
			CategoryID:  categories["Minuman"].ID,
			Name:        "Kopi Susu",
			HasVariants: true,
			Variants: []models.Variant{
				{Name: ptrString("Panas"), Stock: 60, OnlinePrice: 12000, OfflinePrice: 10000},
				{Name: ptrString("Dingin"), Stock: 60, OnlinePrice: 14000, OfflinePrice: 12000},
			},
		},
		{
			StoreID:     store.ID,
			CategoryID:  categories["Makanan"].ID,
			Name:        "Nasi Goreng",
			HasVariants: true,
			Variants: []models.Variant{
				{Name: ptrString("Biasa"), Stock: 40, OnlinePrice: 18000, OfflinePrice: 15000},
				{Name: ptrString("Spesial"), Stock: 25, OnlinePrice: 25000, OfflinePrice: 22000},
			},
		},
		{
			// produk tanpa varian tetap punya satu varian Default
			StoreID:     store.ID,
			CategoryID:  categories["Snack"].ID,
			Name:        "Chitato",
			HasVariants: false,
			Variants: []models.Variant{
				{Stock: 60, OnlinePrice: 9000, OfflinePrice: 8000},
			},
		},
		{
			StoreID:     store.ID,
			CategoryID:  categories["Snack"].ID,
			Name:        "Oreo",
			HasVariants: false,
			Variants: []models.Variant{
				{Stock: 85, OnlinePrice: 8000, OfflinePrice: 7000},
			},
		},
	}

	for _, product := range products {
		var existing models.Product
		err := config.DB.Where("store_id = ? AND name = ?", store.ID, product.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err := config.DB.Create(&product).Error; err != nil {
			logrus.Errorf("seed: create product %s: %v", product.Name, err)
		}
	}

	logrus.Info("✅ Seeding selesai! 1 store + 2 users + 3 categories + 5 products")
}
