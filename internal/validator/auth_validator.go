package validator

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"unicode/utf8"

	repo "lume/internal/repository"
	"lume/internal/usecase"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 3
	maxNameLen     = 100
	maxEmailLen    = 120
	maxPhoneLen    = 20
	minPasswordLen = 6
)

type authValidator struct {
	users repo.UserRepository
}

func NewAuthValidator(users repo.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

func (v *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	n := utf8.RuneCountInString(in.Name)
	if n < minNameLen || n > maxNameLen {
		return usecase.InvalidInput("name must be between 3 and 100 characters")
	}
	if !isEmailLike(in.Email) {
		return usecase.InvalidInput("invalid email")
	}
	if utf8.RuneCountInString(in.Phone) > maxPhoneLen {
		return usecase.InvalidInput("phone too long")
	}
	if len(in.Password) < minPasswordLen {
		return usecase.InvalidInput("password must have at least 6 characters")
	}
	if in.Password != in.PasswordConfirm {
		return usecase.InvalidInput("passwords do not match")
	}

	// storage still enforces uniqueness; this gives the common case a clean message
	_, err := v.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return usecase.Conflict("email already registered")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return nil
}

func (v *authValidator) ValidateLogin(_ context.Context, in usecase.LoginInput) error {
	if in.Email == "" || in.Password == "" {
		return usecase.InvalidInput("email and password are required")
	}
	if !isEmailLike(in.Email) {
		return usecase.InvalidInput("invalid email")
	}
	return nil
}

func isEmailLike(s string) bool {
	if s == "" || len(s) > maxEmailLen || !emailRe.MatchString(s) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
