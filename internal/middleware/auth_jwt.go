package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lume/internal/config"
	"lume/internal/infra/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxIsAdminKey      = "is_admin"      // bool
	CtxTokenVersionKey = "token_version" // int
)

type tokenClaims struct {
	userID  int64
	isAdmin bool
	version int
}

// AuthJWT requires a valid Bearer token.
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			claims, err := parseToken(cfg.JWTSecret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuthJWT sets the caller identity when a valid token is present and
// lets anonymous requests through untouched.
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := parseToken(cfg.JWTSecret, raw); err == nil {
					setClaims(c, claims)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func parseToken(secret, raw string) (tokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return tokenClaims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, errors.New("invalid claims")
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return tokenClaims{}, errors.New("invalid sub")
	}
	isAdmin, _ := claims["adm"].(bool)
	tv, err := parseInt(claims["tv"])
	if err != nil || tv < 0 {
		return tokenClaims{}, errors.New("invalid tv")
	}
	return tokenClaims{userID: userID, isAdmin: isAdmin, version: tv}, nil
}

func setClaims(c echo.Context, tc tokenClaims) {
	c.Set(CtxUserIDKey, tc.userID)
	c.Set(CtxIsAdminKey, tc.isAdmin)
	c.Set(CtxTokenVersionKey, tc.version)

	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithUserID(req.Context(), tc.userID)))
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

func parseInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		i64, err := strconv.ParseInt(t, 10, 32)
		if err != nil {
			return 0, err
		}
		return int(i64), nil
	default:
		return 0, errors.New("invalid int")
	}
}
