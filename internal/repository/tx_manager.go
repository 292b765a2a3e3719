package repository

import "context"

// Repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Favorites() FavoriteRepository
	Ratings() RatingRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin/commit/rollback from usecases.
// fn returning an error rolls everything back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
