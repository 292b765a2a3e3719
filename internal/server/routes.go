package server

import (
	"lume/internal/config"
	"lume/internal/handler"
	"lume/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Engagement   *handler.EngagementHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminAudit   *handler.AdminAuditHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, users repository.UserRepository, h Handlers) {
	h.Product.RegisterRoutes(e, users)
	h.Auth.RegisterRoutes(e, cfg, users)
	h.Cart.RegisterRoutes(e, cfg, users)
	h.Order.RegisterRoutes(e, cfg, users)
	h.Engagement.RegisterRoutes(e, cfg, users)
	h.AdminOrder.RegisterRoutes(e, cfg, users)
	h.AdminProduct.RegisterRoutes(e, cfg, users)
	h.AdminAudit.RegisterRoutes(e, cfg, users)
}
