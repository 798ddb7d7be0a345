package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
	authmw "github.com/Skotchmaster/sweet_shop/internal/middleware/auth"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

const resetRequestedMessage = "if the email is registered, a reset link has been sent"

type AuthHTTP struct {
	Svc *service.AuthService
}

// setSession writes both tokens as cookies and returns the JSON body shared
// by register, login and refresh.
func setSession(c echo.Context, res *service.AuthResult) echo.Map {
	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, res.Tokens.AccessToken, "/", res.Tokens.AccessExp))
	c.SetCookie(authmw.CreateCookie(authmw.RefreshCookie, res.Tokens.RefreshToken, "/", res.Tokens.RefreshExp))
	return echo.Map{
		"user":         res.User,
		"accessToken":  res.Tokens.AccessToken,
		"refreshToken": res.Tokens.RefreshToken,
	}
}

func clearSession(c echo.Context) {
	c.SetCookie(authmw.DeleteCookie(authmw.AccessCookie, "/"))
	c.SetCookie(authmw.DeleteCookie(authmw.RefreshCookie, "/"))
}

// refreshToken prefers the JSON body and falls back to the cookie.
func refreshToken(c echo.Context, req transport.RefreshRequest) string {
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	if ck, err := c.Cookie(authmw.RefreshCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register", &req); err != nil {
		return err
	}
	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info().Uint("user_id", res.User.ID).Msg("register_success")
	return c.JSON(http.StatusCreated, setSession(c, res))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login", &req); err != nil {
		return err
	}
	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info().Uint("user_id", res.User.ID).Msg("login_success")
	return c.JSON(http.StatusOK, setSession(c, res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refresh", "invalid body", err)
	}
	token := refreshToken(c, req)
	if token == "" {
		return fail(l, "refresh", domain.ErrUnauthorized)
	}

	res, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			clearSession(c)
		}
		return fail(l, "refresh", err)
	}
	return c.JSON(http.StatusOK, setSession(c, res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.logout")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "logout", "invalid body", err)
	}
	if token := refreshToken(c, req); token != "" {
		err := h.Svc.Logout(ctx, token)
		if err != nil && !errors.Is(err, domain.ErrUnauthorized) {
			clearSession(c)
			return fail(l, "logout", err)
		}
	}

	clearSession(c)
	l.Info().Msg("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.me")

	user, err := h.Svc.Me(ctx, actor(c).UserID)
	if err != nil {
		return fail(l, "me", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.update_profile")

	var req transport.UpdateProfileRequest
	if err := bind(c, l, "update_profile", &req); err != nil {
		return err
	}
	user, err := h.Svc.UpdateProfile(ctx, actor(c).UserID, req)
	if err != nil {
		return fail(l, "update_profile", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) RequestPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.password_reset")

	var req transport.PasswordResetRequest
	if err := bind(c, l, "password_reset", &req); err != nil {
		return err
	}
	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		return fail(l, "password_reset", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": resetRequestedMessage})
}

func (h *AuthHTTP) ConfirmPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.password_reset_confirm")

	var req transport.PasswordResetConfirmRequest
	if err := bind(c, l, "password_reset_confirm", &req); err != nil {
		return err
	}
	if err := h.Svc.ConfirmPasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		return fail(l, "password_reset_confirm", err)
	}
	clearSession(c)
	l.Info().Msg("password_reset_confirm_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.verify_email")

	var req transport.VerifyEmailRequest
	if err := bind(c, l, "verify_email", &req); err != nil {
		return err
	}
	user, err := h.Svc.VerifyEmail(ctx, req.Token)
	if err != nil {
		return fail(l, "verify_email", err)
	}
	l.Info().Uint("user_id", user.ID).Msg("verify_email_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "email verified", "user": user})
}

func (h *AuthHTTP) ResendVerification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "auth.resend_verification")

	if err := h.Svc.ResendVerification(ctx, actor(c).UserID); err != nil {
		return fail(l, "resend_verification", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification email sent"})
}
