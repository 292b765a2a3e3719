package usecase_test

import (
	"context"
	"strings"
	"testing"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
	"lume/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingUsecase_Add_ScoreBounds(t *testing.T) {
	for _, score := range []int{0, 6, -3} {
		products := new(ProductRepoMock)
		ratings := new(RatingRepoMock)
		uc := usecase.NewRatingUsecase(products, ratings, nil)

		_, err := uc.Add(context.Background(), 7, 1, usecase.RatingInput{Score: score})

		assert.ErrorIs(t, err, usecase.ErrInvalidInput, "score=%d", score)
		ratings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestRatingUsecase_Add_Success(t *testing.T) {
	products := new(ProductRepoMock)
	ratings := new(RatingRepoMock)
	metrics := &metricsSpy{}
	uc := usecase.NewRatingUsecase(products, ratings, metrics)

	products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
	ratings.On("Create", mock.Anything, model.Rating{ProductID: 1, UserID: 7, Score: 5, Comment: "ótimo"}).
		Return(model.Rating{ID: 11, ProductID: 1, UserID: 7, Score: 5, Comment: "ótimo"}, nil)

	out, err := uc.Add(context.Background(), 7, 1, usecase.RatingInput{Score: 5, Comment: "  ótimo "})

	require.NoError(t, err)
	assert.Equal(t, int64(11), out.ID)
	assert.Equal(t, "ótimo", out.Comment)
	assert.Equal(t, 1, metrics.ratings)
}

func TestRatingUsecase_Add_CommentLength(t *testing.T) {
	products := new(ProductRepoMock)
	ratings := new(RatingRepoMock)
	uc := usecase.NewRatingUsecase(products, ratings, nil)

	// 500 multi-byte runes is still within the limit
	products.On("FindByID", mock.Anything, int64(1)).Return(ringProduct(), nil)
	ratings.On("Create", mock.Anything, mock.Anything).Return(model.Rating{ID: 1}, nil)
	_, err := uc.Add(context.Background(), 7, 1, usecase.RatingInput{Score: 4, Comment: strings.Repeat("é", 500)})
	require.NoError(t, err)

	_, err = uc.Add(context.Background(), 7, 1, usecase.RatingInput{Score: 4, Comment: strings.Repeat("a", 501)})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestRatingUsecase_Add_UnknownProduct(t *testing.T) {
	products := new(ProductRepoMock)
	ratings := new(RatingRepoMock)
	uc := usecase.NewRatingUsecase(products, ratings, nil)
	products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Add(context.Background(), 7, 9, usecase.RatingInput{Score: 3})

	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestRatingUsecase_Recent(t *testing.T) {
	products := new(ProductRepoMock)
	ratings := new(RatingRepoMock)
	uc := usecase.NewRatingUsecase(products, ratings, nil)
	ratings.On("ListRecentByProduct", mock.Anything, int64(1), 10).Return([]model.RatingWithAuthor{
		{Rating: model.Rating{ID: 2, Score: 5, Comment: "ótimo"}, UserName: "Ana"},
		{Rating: model.Rating{ID: 1, Score: 3}, UserName: "Bia"},
	}, nil)

	out, err := uc.Recent(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ótimo", out[0].Comment)
	assert.Equal(t, "Ana", out[0].UserName)
}
