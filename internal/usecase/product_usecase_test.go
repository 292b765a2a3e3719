package usecase_test

import (
	"context"
	"errors"
	"testing"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
	"lume/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	products  *ProductRepoMock
	options   *OptionRepoMock
	ratings   *RatingRepoMock
	favorites *FavoriteRepoMock
	uc        *usecase.ProductUsecase
}

func newProductFixture() productFixture {
	f := productFixture{
		products:  new(ProductRepoMock),
		options:   new(OptionRepoMock),
		ratings:   new(RatingRepoMock),
		favorites: new(FavoriteRepoMock),
	}
	f.uc = usecase.NewProductUsecase(f.products, f.options, f.ratings, f.favorites)
	return f
}

func (f productFixture) expectOptions() {
	f.options.On("ListMaterials", mock.Anything).Return([]model.Material{gold18k()}, nil)
	f.options.On("ListStones", mock.Anything).Return([]model.Stone{diamond()}, nil)
	f.options.On("ListSizes", mock.Anything).Return([]model.Size{{ID: 1, Label: "10"}, {ID: 2, Label: "11"}}, nil)
}

func TestProductUsecase_ListActive(t *testing.T) {
	f := newProductFixture()
	f.products.On("ListActive", mock.Anything).Return([]model.Product{ringProduct()}, nil)

	out, err := f.uc.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2999.00", out[0].BasePrice)
	assert.Equal(t, "R$ 2.999,00", out[0].Formatted)
}

func TestProductUsecase_ListActive_DBError(t *testing.T) {
	f := newProductFixture()
	f.products.On("ListActive", mock.Anything).Return([]model.Product{}, errors.New("conn reset"))

	out, err := f.uc.ListActive(context.Background())

	require.ErrorIs(t, err, usecase.ErrInternal)
	assert.Empty(t, out)
}

func TestProductUsecase_Detail(t *testing.T) {
	t.Run("anonymous viewer never looks up favorites", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
		f.expectOptions()
		f.ratings.On("ListRecentByProduct", mock.Anything, int64(1), 10).Return([]model.RatingWithAuthor{
			{Rating: model.Rating{ID: 2, ProductID: 1, UserID: 7, Score: 5, Comment: "ótimo"}, UserName: "Maria"},
		}, nil)

		out, err := f.uc.Detail(context.Background(), 1, 0)

		require.NoError(t, err)
		assert.False(t, out.Favorited)
		assert.Equal(t, []string{"10", "11"}, out.Options.Sizes)
		assert.Equal(t, "500.00", out.Options.Materials[0].AdditionalPrice)
		require.Len(t, out.Ratings, 1)
		assert.Equal(t, "Maria", out.Ratings[0].UserName)
		f.favorites.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("logged in viewer sees favorite flag", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
		f.expectOptions()
		f.ratings.On("ListRecentByProduct", mock.Anything, int64(1), 10).Return([]model.RatingWithAuthor{}, nil)
		f.favorites.On("Exists", mock.Anything, int64(7), int64(1)).Return(true, nil)

		out, err := f.uc.Detail(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.True(t, out.Favorited)
	})

	t.Run("inactive products are still shown", func(t *testing.T) {
		f := newProductFixture()
		p := ringProduct()
		p.IsActive = false
		f.products.On("FindByID", mock.Anything, int64(1)).Return(p, nil)
		f.expectOptions()
		f.ratings.On("ListRecentByProduct", mock.Anything, int64(1), 10).Return([]model.RatingWithAuthor{}, nil)

		out, err := f.uc.Detail(context.Background(), 1, 0)

		require.NoError(t, err)
		assert.False(t, out.Product.IsActive)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

		_, err := f.uc.Detail(context.Background(), 9, 0)

		require.ErrorIs(t, err, usecase.ErrNotFound)
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, 404, he.Status)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newProductFixture()

		_, err := f.uc.Detail(context.Background(), 0, 0)

		require.ErrorIs(t, err, usecase.ErrInvalidInput)
		f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
