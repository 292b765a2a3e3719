package repository

import (
	"errors"
	"strings"

	repo "lume/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return repo.ErrForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repo.ErrDuplicate
		case pgForeignKeyViolation:
			return repo.ErrForeignKey
		}
		return err
	}

	// sqlite reports constraint failures only in the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return repo.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return repo.ErrForeignKey
	}
	return err
}
