package usecase_test

import (
	"lume/internal/domain/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ringProduct() model.Product {
	return model.Product{ID: 1, Name: "Anel Solitário Lume", BasePrice: dec("2999.00"), IsActive: true}
}

func gold18k() model.Material {
	return model.Material{ID: 1, Name: "Ouro 18k", AdditionalPrice: dec("500.00")}
}

func diamond() model.Stone {
	return model.Stone{ID: 1, Name: "Diamante", AdditionalPrice: dec("1000.00")}
}

func ringLine(qty int64) model.CartLine {
	return model.NewCartLine(ringProduct(), gold18k(), diamond(), "12", qty)
}
