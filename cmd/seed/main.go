package main

import (
	"errors"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedUser struct {
	name, email, password, role string
}

type seedProduct struct {
	name     string
	price    int64
	stock    int
	category string
}

var (
	users = []seedUser{
		{"Budi Santoso", "user1@example.com", "password", model.RoleUser},
		{"Siti Aminah", "user2@example.com", "password", model.RoleUser},
		{"Administrator", "admin@example.com", "admin123", model.RoleAdmin},
	}

	categories = []string{"Elektronik", "Fashion", "Makanan"}

	products = []seedProduct{
		{"Laptop Gaming X", 15000000, 10, "Elektronik"},
		{"Mouse Wireless", 250000, 50, "Elektronik"},
		{"Kaos Polos Hitam", 75000, 100, "Fashion"},
		{"Ayam Goreng", 75000, 100, "Makanan"},
	}
)

// Seeds demo data. Safe to run repeatedly.
func main() {
	// 1. Load Env
	cfg, _, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	log.Info("Starting seeding...")
	if err := seed(db, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding completed")
}

func seed(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 3. Users
		for _, u := range users {
			var user model.User
			err := tx.Where("email = ?", u.email).First(&user).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			user = model.User{Name: u.name, Email: u.email, Role: u.role}
			if err := user.SetPassword(u.password); err != nil {
				return err
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			log.Info("User created", zap.String("email", u.email), zap.String("role", u.role))
		}

		// 4. Categories
		categoryIDs := make(map[string]uint, len(categories))
		for _, name := range categories {
			category := model.Category{Name: name}
			if err := tx.Where(model.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
				return err
			}
			categoryIDs[name] = category.ID
		}

		// 5. Products, skipped when an active product with the same name exists
		for _, p := range products {
			var count int64
			if err := tx.Model(&model.Product{}).
				Where("name = ? AND deleted_at IS NULL", p.name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			product := model.Product{
				Name:       p.name,
				Price:      decimal.NewFromInt(p.price),
				Stock:      p.stock,
				CategoryID: categoryIDs[p.category],
			}
			if err := tx.Omit("Category").Create(&product).Error; err != nil {
				return err
			}
			log.Info("Product created", zap.String("name", p.name))
		}
		return nil
	})
}
