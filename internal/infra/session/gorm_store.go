package session

import (
	"context"
	"errors"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/logger"
	repo "lume/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps carts in the sessions table.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	return &GormStore{db: db, ttl: ttl, now: time.Now}
}

func (s *GormStore) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	var row model.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", sessionID, s.now().UTC()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, nil
	}
	if err != nil {
		return model.Cart{}, err
	}
	return decodeCart([]byte(row.Data))
}

func (s *GormStore) Update(ctx context.Context, sessionID string, fn func(c *model.Cart) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now().UTC()
		row, err := s.lockRow(tx, sessionID, now, true)
		if err != nil {
			return err
		}
		cart, err := liveCart(row, now)
		if err != nil {
			return err
		}

		if err := fn(&cart); err != nil {
			return err
		}

		data, err := encodeCart(cart)
		if err != nil {
			return err
		}
		return tx.Model(&model.Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"data":       string(data),
				"expires_at": now.Add(s.ttl),
			}).Error
	})
}

// Consume takes a lease on the row in one short transaction, runs fn with no
// transaction open, then settles in a second one. fn is free to open its own
// transactions on the same database.
func (s *GormStore) Consume(ctx context.Context, sessionID string, fn func(lines []model.CartLine) error) error {
	lines, err := s.acquire(ctx, sessionID)
	if err != nil {
		return err
	}

	fnErr := fn(lines)

	var taken []model.CartLine
	if fnErr == nil {
		taken = lines
	}
	// settle even if the request context is gone, or the lease lingers
	if err := s.settle(context.WithoutCancel(ctx), sessionID, taken); err != nil {
		if fnErr != nil {
			logger.FromContext(ctx).Warn("cart lease release failed",
				zap.String("session_id", sessionID), zap.Error(err))
			return fnErr
		}
		return err
	}
	return fnErr
}

func (s *GormStore) acquire(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now().UTC()
		row, err := s.lockRow(tx, sessionID, now, true)
		if err != nil {
			return err
		}
		if row.CheckoutUntil != nil && row.CheckoutUntil.After(now) {
			return repo.ErrCheckoutInProgress
		}
		cart, err := liveCart(row, now)
		if err != nil {
			return err
		}
		lines = cart.Lines

		until := now.Add(checkoutLease)
		return tx.Model(&model.Session{}).
			Where("id = ?", sessionID).
			Update("checkout_until", &until).Error
	})
	return lines, err
}

func (s *GormStore) settle(ctx context.Context, sessionID string, taken []model.CartLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now().UTC()
		row, err := s.lockRow(tx, sessionID, now, false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// cleared meanwhile; nothing to release
			return nil
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"checkout_until": nil}
		if len(taken) > 0 {
			cart, err := liveCart(row, now)
			if err != nil {
				return err
			}
			cart.Remove(taken)
			data, err := encodeCart(cart)
			if err != nil {
				return err
			}
			updates["data"] = string(data)
		}
		return tx.Model(&model.Session{}).Where("id = ?", sessionID).Updates(updates).Error
	})
}

// lockRow reads the session row inside tx, locking it on postgres. With seed
// set a missing row is created first so there is always something to lock.
func (s *GormStore) lockRow(tx *gorm.DB, sessionID string, now time.Time, seed bool) (model.Session, error) {
	if seed {
		row := model.Session{ID: sessionID, Data: "{}", ExpiresAt: now.Add(s.ttl)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return model.Session{}, err
		}
	}

	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row model.Session
	if err := q.Where("id = ?", sessionID).Take(&row).Error; err != nil {
		return model.Session{}, err
	}
	return row, nil
}

func liveCart(row model.Session, now time.Time) (model.Cart, error) {
	if !row.ExpiresAt.After(now) {
		return model.Cart{}, nil
	}
	return decodeCart([]byte(row.Data))
}

func (s *GormStore) Clear(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&model.Session{}).Error
}

// PurgeExpired removes sessions past their expiry and returns how many went.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
