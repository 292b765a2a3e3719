package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lume/internal/config"
	"lume/internal/domain/model"
	repo "lume/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthValidator checks request shape before the usecase touches storage.
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, in LoginInput) error
}

type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type AccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	User  UserDTO        `json:"user"`
	Token AccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	validator AuthValidator
	now       func() time.Time
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, validator: validator, now: time.Now}
}

// Register creates a customer account. Accounts made here are never admins.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return UserDTO{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, newError(ErrInternal, "internal error")
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return UserDTO{}, conflict("email already registered")
		}
		return UserDTO{}, dbError(ctx, "auth.register", err)
	}
	return toUserDTO(*user), nil
}

// Login answers Unauthorized for both an unknown email and a wrong password.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(ctx, in); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, newError(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginOutput{}, dbError(ctx, "auth.login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, newError(ErrUnauthorized, "invalid email or password")
	}

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return LoginOutput{}, newError(ErrInternal, "internal error")
	}
	return LoginOutput{
		User: toUserDTO(user),
		Token: AccessTokenDTO{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, unauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, unauthorized()
	}
	if err != nil {
		return UserDTO{}, dbError(ctx, "auth.me", err)
	}
	return toUserDTO(user), nil
}

// Logout revokes every token issued to the user so far.
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return unauthorized()
	}
	err := u.users.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return unauthorized()
	}
	if err != nil {
		return dbError(ctx, "auth.logout", err)
	}
	return nil
}

func (u *AuthUsecase) issueAccessToken(user model.User) (string, int, error) {
	now := u.now()
	ttl := u.cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"adm": user.IsAdmin,
		"tv":  user.TokenVersion,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(ttl.Seconds()), nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
