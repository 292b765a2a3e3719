package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/logger"
	repo "lume/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxPaymentLabelLen = 50

type OrderUsecase struct {
	tx      repo.TransactionManager
	carts   repo.CartStore
	events  OrderEventPublisher
	metrics Metrics
	now     func() time.Time
}

// events and metrics may be nil.
func NewOrderUsecase(tx repo.TransactionManager, carts repo.CartStore, events OrderEventPublisher, metrics Metrics) *OrderUsecase {
	if events == nil {
		events = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &OrderUsecase{tx: tx, carts: carts, events: events, metrics: metrics, now: time.Now}
}

type CheckoutInput struct {
	PaymentMethod string `json:"payment_method"`
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size"`
	Material  string `json:"material"`
	Stone     string `json:"stone"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Status        string            `json:"status"`
	Total         string            `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

// PlaceOrder checks out the session's cart. The cart store serializes
// checkouts per session: the lines read are the lines ordered, and only those
// leave the cart once the order has committed. A concurrent checkout of the
// same session gets a conflict; any failure leaves the cart as it was.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, sessionID string, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	if sessionID == "" {
		return u.Checkout(ctx, userID, nil, in.PaymentMethod)
	}

	var out OrderOutput
	err := u.carts.Consume(ctx, sessionID, func(lines []model.CartLine) error {
		o, err := u.Checkout(ctx, userID, lines, in.PaymentMethod)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	switch {
	case err == nil:
		return out, nil
	case out.ID != 0:
		// the order exists; failing here would invite a duplicate retry
		logger.FromContext(ctx).Error("cart settle after checkout failed",
			zap.Int64("order_id", out.ID), zap.Error(err))
		return out, nil
	case errors.Is(err, repo.ErrCheckoutInProgress):
		u.metrics.CheckoutFailed("in_progress")
		return OrderOutput{}, conflict("checkout already in progress")
	}
	return OrderOutput{}, passThrough(ctx, "checkout.cart", err)
}

// Checkout writes one order and its lines atomically from already priced
// cart lines.
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, lines []model.CartLine, payment string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	if len(lines) == 0 {
		u.metrics.CheckoutFailed("empty_cart")
		return OrderOutput{}, newError(ErrEmptyCart, "cart is empty")
	}
	payment = strings.TrimSpace(payment)
	if payment == "" || len([]rune(payment)) > maxPaymentLabelLen {
		u.metrics.CheckoutFailed("invalid_input")
		return OrderOutput{}, invalidInput("invalid payment_method")
	}

	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 || l.ProductID <= 0 {
			u.metrics.CheckoutFailed("invalid_input")
			return OrderOutput{}, invalidInput("invalid cart line")
		}
		sub := model.LineSubtotal(l.UnitPrice, l.Quantity)
		total = total.Add(sub)
		items = append(items, model.OrderItem{
			ProductID:           l.ProductID,
			ProductNameSnapshot: l.ProductName,
			Quantity:            l.Quantity,
			Size:                l.Size,
			Material:            l.Material,
			Stone:               l.Stone,
			UnitPrice:           l.UnitPrice.Round(2),
			Subtotal:            sub,
		})
	}
	total = total.Round(2)

	order := model.Order{
		UserID:        userID,
		Status:        model.OrderStatusPending,
		Total:         total,
		PaymentMethod: payment,
		CreatedAt:     u.now().UTC(),
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderID, err := r.Orders().Create(ctx, order)
		if errors.Is(err, repo.ErrForeignKey) {
			return unauthorized()
		}
		if err != nil {
			return err
		}
		order.ID = orderID

		for i := range items {
			items[i].OrderID = orderID
		}
		err = r.OrderItems().CreateBulk(ctx, items)
		if errors.Is(err, repo.ErrForeignKey) {
			return notFound("product no longer available")
		}
		return err
	})
	if err != nil {
		u.metrics.CheckoutFailed(failureReason(err))
		return OrderOutput{}, passThrough(ctx, "checkout.tx", err)
	}

	u.metrics.OrderPlaced()
	u.publish(ctx, model.OrderEvent{
		Type:       model.OrderEventPlaced,
		OrderID:    order.ID,
		UserID:     userID,
		Status:     order.Status,
		Total:      formatAmount(total),
		OccurredAt: u.now().UTC(),
	})

	return toOrderOutput(order, items), nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, unauthorized()
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, passThrough(ctx, "orders.list", err)
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, invalidInput("invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return err
		}
		// someone else's order looks exactly like a missing one
		if o.UserID != userID {
			return notFound("order not found")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passThrough(ctx, "orders.get", err)
	}
	return out, nil
}

func (u *OrderUsecase) publish(ctx context.Context, evt model.OrderEvent) {
	if err := u.events.PublishOrderEvent(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("order event not published",
			zap.String("type", evt.Type), zap.Int64("order_id", evt.OrderID), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "storage"
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Material:  it.Material,
			Stone:     it.Stone,
			UnitPrice: formatAmount(it.UnitPrice),
			Subtotal:  formatAmount(it.Subtotal),
		})
	}
	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		Total:         formatAmount(o.Total),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
