package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// unique constraint violated
	ErrDuplicate = errors.New("duplicate")
	// foreign key constraint violated (referenced row missing or still referenced)
	ErrForeignKey = errors.New("foreign key violation")
	// another checkout holds the session's cart
	ErrCheckoutInProgress = errors.New("checkout in progress")
)
