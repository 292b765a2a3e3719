package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lume/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminName = "Administrador"

type option struct {
	name  string
	price string
}

var (
	demoMaterials = []option{
		{"Ouro 18k", "500.00"},
		{"Ouro 14k", "300.00"},
		{"Prata 925", "0.00"},
	}
	demoStones = []option{
		{"Diamante", "1000.00"},
		{"Rubi", "600.00"},
		{"Safira", "600.00"},
		{"Esmeralda", "500.00"},
	}
)

// Ensure loads the demo catalog when the store has no products yet and
// creates the admin account when its email is missing. Running it again
// changes nothing.
func Ensure(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCatalogTx(tx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if err := ensureAdminTx(tx, adminEmail, adminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		return nil
	})
}

func ensureCatalogTx(tx *gorm.DB) error {
	var n int64
	if err := tx.Model(&model.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	product := model.Product{
		Name:        "Anel Solitário Lume",
		Description: "Anel solitário clássico, personalizável em metal e pedra.",
		BasePrice:   decimal.RequireFromString("2999.00"),
		ImageURL:    "/static/imgs/logo.png",
		IsActive:    true,
	}
	if err := tx.Create(&product).Error; err != nil {
		return err
	}

	for _, m := range demoMaterials {
		row := model.Material{Name: m.name, AdditionalPrice: decimal.RequireFromString(m.price)}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, s := range demoStones {
		row := model.Stone{Name: s.name, AdditionalPrice: decimal.RequireFromString(s.price)}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for i := 10; i <= 20; i++ {
		row := model.Size{Label: fmt.Sprintf("%d", i)}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminTx(tx *gorm.DB, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	var existing model.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := model.User{
		Name:         defaultAdminName,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	return tx.Create(&admin).Error
}
