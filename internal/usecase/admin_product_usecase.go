package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lume/internal/domain/model"
	repo "lume/internal/repository"

	"github.com/shopspring/decimal"
)

const maxProductNameLen = 200

type AdminProductUsecase struct {
	gate     *AdminGate
	tx       repo.TransactionManager
	products repo.ProductRepository
	now      func() time.Time
}

func NewAdminProductUsecase(gate *AdminGate, tx repo.TransactionManager, products repo.ProductRepository) *AdminProductUsecase {
	return &AdminProductUsecase{gate: gate, tx: tx, products: products, now: time.Now}
}

type AdminProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BasePrice   string `json:"base_price"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

type auditProduct struct {
	Name      string `json:"name"`
	BasePrice string `json:"base_price"`
	ImageURL  string `json:"image_url"`
	IsActive  bool   `json:"is_active"`
}

func (u *AdminProductUsecase) List(ctx context.Context, actorID int64) ([]ProductOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return []ProductOutput{}, err
	}
	ps, err := u.products.ListAll(ctx)
	if err != nil {
		return []ProductOutput{}, dbError(ctx, "admin.products.list", err)
	}
	return toProductOutputs(ps), nil
}

func (u *AdminProductUsecase) Create(ctx context.Context, actorID int64, in AdminProductInput) (ProductOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return ProductOutput{}, err
	}
	p, err := productFromInput(in)
	if err != nil {
		return ProductOutput{}, err
	}
	// new products are visible unless told otherwise
	p.IsActive = in.IsActive == nil || *in.IsActive

	var created model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Products().Create(ctx, p)
		if err != nil {
			return err
		}
		created = c
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionCreateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   c.ID,
			AfterJSON:    mustJSON(toAuditProduct(c)),
			CreatedAt:    u.now().UTC(),
		})
	})
	if err != nil {
		return ProductOutput{}, passThrough(ctx, "admin.products.create", err)
	}
	return toProductOutput(created), nil
}

func (u *AdminProductUsecase) Update(ctx context.Context, actorID int64, productID int64, in AdminProductInput) (ProductOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return ProductOutput{}, err
	}
	if productID <= 0 {
		return ProductOutput{}, invalidInput("invalid product id")
	}
	p, err := productFromInput(in)
	if err != nil {
		return ProductOutput{}, err
	}
	p.ID = productID

	var updated model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product not found")
		}
		if err != nil {
			return err
		}
		p.IsActive = before.IsActive
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}

		if err := r.Products().Update(ctx, p); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("product not found")
			}
			return err
		}
		p.CreatedAt = before.CreatedAt
		updated = p

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionUpdateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   mustJSON(toAuditProduct(before)),
			AfterJSON:    mustJSON(toAuditProduct(p)),
			CreatedAt:    u.now().UTC(),
		})
	})
	if err != nil {
		return ProductOutput{}, passThrough(ctx, "admin.products.update", err)
	}
	return toProductOutput(updated), nil
}

// Delete removes the product with its ratings and favorites. Products that
// appear on any order line cannot be deleted.
func (u *AdminProductUsecase) Delete(ctx context.Context, actorID int64, productID int64) error {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return err
	}
	if productID <= 0 {
		return invalidInput("invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product not found")
		}
		if err != nil {
			return err
		}

		referenced, err := r.OrderItems().ExistsByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if referenced {
			return constraint("product is referenced by orders")
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			switch {
			case errors.Is(err, repo.ErrNotFound):
				return notFound("product not found")
			case errors.Is(err, repo.ErrForeignKey):
				return constraint("product is referenced by orders")
			}
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   mustJSON(toAuditProduct(before)),
			CreatedAt:    u.now().UTC(),
		})
	})
	if err != nil {
		return passThrough(ctx, "admin.products.delete", err)
	}
	return nil
}

func productFromInput(in AdminProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, invalidInput("name required")
	}
	if len([]rune(name)) > maxProductNameLen {
		return model.Product{}, invalidInput("name too long")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.BasePrice))
	if err != nil {
		return model.Product{}, invalidInput("invalid base_price")
	}
	if price.IsNegative() {
		return model.Product{}, invalidInput("base_price must be >= 0")
	}
	return model.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		BasePrice:   price.Round(2),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}, nil
}

func toAuditProduct(p model.Product) auditProduct {
	return auditProduct{
		Name:      p.Name,
		BasePrice: formatAmount(p.BasePrice),
		ImageURL:  p.ImageURL,
		IsActive:  p.IsActive,
	}
}
