package handler

import (
	"net/http"

	"lume/internal/config"
	"lume/internal/middleware"
	"lume/internal/repository"
	"lume/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProductHandler serves the public storefront reads.
type ProductHandler struct {
	cfg     config.Config
	uc      *usecase.ProductUsecase
	pricing *usecase.PricingUsecase
}

func NewProductHandler(cfg config.Config, uc *usecase.ProductUsecase, pricing *usecase.PricingUsecase) *ProductHandler {
	return &ProductHandler{cfg: cfg, uc: uc, pricing: pricing}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, users repository.UserRepository) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail, middleware.OptionalAuthJWT(h.cfg), middleware.OptionalTokenVersionGuard(users))
	e.GET("/options", h.options)
	e.POST("/quote", h.quote)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Detail(c.Request().Context(), id, optionalUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) options(c echo.Context) error {
	out, err := h.uc.Options(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) quote(c echo.Context) error {
	var req usecase.QuoteInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.pricing.Quote(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
