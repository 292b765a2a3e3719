package usecase_test

import (
	"context"
	"testing"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
	"lume/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminProductFixture struct {
	users    *UserRepoMock
	products *ProductRepoMock
	items    *OrderItemRepoMock
	audits   *AuditRepoMock
	tx       *txManagerStub
	uc       *usecase.AdminProductUsecase
}

func newAdminProductFixture() *adminProductFixture {
	f := &adminProductFixture{
		users:    new(UserRepoMock),
		products: new(ProductRepoMock),
		items:    new(OrderItemRepoMock),
		audits:   new(AuditRepoMock),
	}
	f.tx = &txManagerStub{repos: &txReposStub{products: f.products, orderItems: f.items, auditLogs: f.audits}}
	f.uc = usecase.NewAdminProductUsecase(usecase.NewAdminGate(f.users), f.tx, f.products)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, IsAdmin: true}, nil)
	f.users.On("FindByID", mock.Anything, int64(2)).Return(model.User{ID: 2}, nil)
	return f
}

func TestAdminProductUsecase_Create(t *testing.T) {
	f := newAdminProductFixture()
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Brinco Gota" && p.BasePrice.Equal(dec("1250.50")) && p.IsActive
	})).Return(model.Product{ID: 8, Name: "Brinco Gota", BasePrice: dec("1250.50"), IsActive: true}, nil)
	f.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateProduct && l.ResourceID == 8 && l.ActorUserID == 1
	})).Return(nil)

	out, err := f.uc.Create(context.Background(), 1, usecase.AdminProductInput{Name: "Brinco Gota", BasePrice: "1250.5"})

	require.NoError(t, err)
	assert.Equal(t, int64(8), out.ID)
	assert.Equal(t, "1250.50", out.BasePrice)
	f.audits.AssertExpectations(t)
}

func TestAdminProductUsecase_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.AdminProductInput
	}{
		{"empty name", usecase.AdminProductInput{Name: "  ", BasePrice: "10"}},
		{"bad price", usecase.AdminProductInput{Name: "Anel", BasePrice: "abc"}},
		{"negative price", usecase.AdminProductInput{Name: "Anel", BasePrice: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminProductFixture()

			_, err := f.uc.Create(context.Background(), 1, tt.in)

			assert.ErrorIs(t, err, usecase.ErrInvalidInput)
			assert.Equal(t, 0, f.tx.calls)
		})
	}
}

func TestAdminProductUsecase_NonAdminForbidden(t *testing.T) {
	f := newAdminProductFixture()

	_, err := f.uc.Create(context.Background(), 2, usecase.AdminProductInput{Name: "Anel", BasePrice: "10"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	_, err = f.uc.Update(context.Background(), 2, 1, usecase.AdminProductInput{Name: "Anel", BasePrice: "10"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	assert.ErrorIs(t, f.uc.Delete(context.Background(), 2, 1), usecase.ErrForbidden)
	assert.Equal(t, 0, f.tx.calls)
}

func TestAdminProductUsecase_Update_KeepsActiveFlagWhenOmitted(t *testing.T) {
	f := newAdminProductFixture()
	before := ringProduct()
	before.IsActive = false
	f.products.On("FindByID", mock.Anything, int64(1)).Return(before, nil)
	f.products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 1 && !p.IsActive && p.BasePrice.Equal(dec("3100.00"))
	})).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Update(context.Background(), 1, 1, usecase.AdminProductInput{Name: "Anel", BasePrice: "3100"})

	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, "3100.00", out.BasePrice)
}

func TestAdminProductUsecase_Delete_ReferencedByOrders(t *testing.T) {
	f := newAdminProductFixture()
	f.products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
	f.items.On("ExistsByProductID", mock.Anything, int64(1)).Return(true, nil)

	err := f.uc.Delete(context.Background(), 1, 1)

	assert.ErrorIs(t, err, usecase.ErrConstraintViolation)
	f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminProductUsecase_Delete(t *testing.T) {
	f := newAdminProductFixture()
	f.products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
	f.items.On("ExistsByProductID", mock.Anything, int64(1)).Return(false, nil)
	f.products.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct && l.BeforeJSON != ""
	})).Return(nil)

	require.NoError(t, f.uc.Delete(context.Background(), 1, 1))
	f.products.AssertExpectations(t)
	f.audits.AssertExpectations(t)
}

func TestAdminProductUsecase_Delete_Missing(t *testing.T) {
	f := newAdminProductFixture()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	assert.ErrorIs(t, f.uc.Delete(context.Background(), 1, 9), usecase.ErrNotFound)
}
