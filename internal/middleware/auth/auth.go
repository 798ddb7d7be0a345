package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	userIDKey = "user_id"
	roleKey   = "role"
)

// RefreshFunc trades a refresh token for a new pair, revoking the old one.
type RefreshFunc func(ctx context.Context, refreshToken string) (*tokens.Pair, error)

type Authenticator struct {
	AccessSecret []byte
	// Refresh, when set, renews an expired access cookie from the refresh cookie.
	Refresh RefreshFunc
}

func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{AccessSecret: secret}
}

// RequireAuth accepts "Authorization: Bearer <jwt>" or the access token
// cookie, and puts user_id and role on the echo context.
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		raw, fromCookie := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, a.AccessSecret)
		if err != nil && fromCookie && errors.Is(err, jwt.ErrTokenExpired) && a.Refresh != nil {
			claims, err = a.renew(c)
		}
		if err != nil {
			l.Debug().Err(err).Msg("access_token_rejected")
			if fromCookie {
				c.SetCookie(DeleteCookie(AccessCookie, "/"))
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		userID, err := claims.UserID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(userIDKey, userID)
		c.Set(roleKey, models.Role(claims.Role))
		return next(c)
	}
}

// renew rotates the session from the refresh cookie and rewrites both cookies.
func (a *Authenticator) renew(c echo.Context) (*tokens.AccessClaims, error) {
	ck, err := c.Cookie(RefreshCookie)
	if err != nil || ck.Value == "" {
		return nil, errors.New("refresh token missing")
	}
	pair, err := a.Refresh(c.Request().Context(), ck.Value)
	if err != nil {
		c.SetCookie(DeleteCookie(RefreshCookie, "/"))
		return nil, err
	}
	c.SetCookie(CreateCookie(AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(CreateCookie(RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
	logging.FromContext(c.Request().Context()).Debug().Msg("access_token_renewed")
	return tokens.AccessClaimsFromToken(pair.AccessToken, a.AccessSecret)
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through untouched.
func (a *Authenticator) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, _ := accessToken(c)
		if raw == "" {
			return next(c)
		}
		claims, err := tokens.AccessClaimsFromToken(raw, a.AccessSecret)
		if err != nil {
			return next(c)
		}
		if userID, err := claims.UserID(); err == nil {
			c.Set(userIDKey, userID)
			c.Set(roleKey, models.Role(claims.Role))
		}
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := Role(c)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(models.RoleAdmin)(next)
}

func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(models.RoleReceptionist, models.RoleAdmin)(next)
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userIDKey).(uint)
	return id, ok && id != 0
}

func Role(c echo.Context) models.Role {
	r, _ := c.Get(roleKey).(models.Role)
	return r
}

func accessToken(c echo.Context) (token string, fromCookie bool) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value), false
		}
		return "", false
	}
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	return "", false
}
