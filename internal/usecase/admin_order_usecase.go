package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/logger"
	repo "lume/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	gate   *AdminGate
	tx     repo.TransactionManager
	events OrderEventPublisher
	now    func() time.Time
}

func NewAdminOrderUsecase(gate *AdminGate, tx repo.TransactionManager, events OrderEventPublisher) *AdminOrderUsecase {
	if events == nil {
		events = nopPublisher{}
	}
	return &AdminOrderUsecase{gate: gate, tx: tx, events: events, now: time.Now}
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
}

// List returns every order in the store, newest first.
func (u *AdminOrderUsecase) List(ctx context.Context, actorID int64) (AdminOrderListOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return AdminOrderListOutput{}, err
	}

	var out AdminOrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return err
		}
		out.Total = int64(len(orders))
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return AdminOrderListOutput{}, passThrough(ctx, "admin.orders.list", err)
	}
	return out, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, actorID int64, orderID int64) (OrderOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return OrderOutput{}, err
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
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passThrough(ctx, "admin.orders.get", err)
	}
	return out, nil
}

// UpdateStatus overwrites the status. Any status may follow any other;
// writing the current status again changes nothing.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, invalidInput("invalid id")
	}
	newStatus, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return OrderOutput{}, invalidStatus("invalid status")
	}

	var (
		out     OrderOutput
		before  model.OrderStatus
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return err
		}
		before = o.Status

		if o.Status != newStatus {
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return notFound("order not found")
				}
				return err
			}
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actorID,
				Action:       model.AuditActionUpdateOrderStatus,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   mustJSON(map[string]string{"status": string(before)}),
				AfterJSON:    mustJSON(map[string]string{"status": string(newStatus)}),
				CreatedAt:    u.now().UTC(),
			}); err != nil {
				return err
			}
			o.Status = newStatus
			changed = true
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passThrough(ctx, "admin.orders.update_status", err)
	}

	if changed {
		evt := model.OrderEvent{
			Type:       model.OrderEventStatusChanged,
			OrderID:    out.ID,
			UserID:     out.UserID,
			Status:     newStatus,
			PrevStatus: before,
			Total:      out.Total,
			OccurredAt: u.now().UTC(),
		}
		if err := u.events.PublishOrderEvent(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn("order event not published",
				zap.String("type", evt.Type), zap.Int64("order_id", evt.OrderID), zap.Error(err))
		}
	}
	return out, nil
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
