package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type AdminHTTP struct {
	Users     *service.UserService
	Dashboard *service.DashboardService
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.dashboard_stats")

	st, err := h.Dashboard.Stats(ctx)
	if err != nil {
		return fail(l, "dashboard_stats", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.list_users")

	users, err := h.Users.List(ctx, c.QueryParam("role"))
	if err != nil {
		return fail(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.get_user")

	id, err := paramID(c, l, "get_user", "id")
	if err != nil {
		return err
	}
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHTTP) GetUserByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.get_user_by_email")

	u, err := h.Users.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		return fail(l, "get_user_by_email", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.update_user")

	id, err := paramID(c, l, "update_user", "id")
	if err != nil {
		return err
	}
	var req transport.AdminUpdateUserRequest
	if err := bind(c, l, "update_user", &req); err != nil {
		return err
	}
	u, err := h.Users.Update(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update_user", err)
	}
	l.Info().Uint("user_id", u.ID).Str("role", string(u.Role)).Bool("active", u.IsActive).Msg("update_user_success")
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "admin.delete_user")

	id, err := paramID(c, l, "delete_user", "id")
	if err != nil {
		return err
	}
	if err := h.Users.Delete(ctx, actor(c), id); err != nil {
		return fail(l, "delete_user", err)
	}
	l.Info().Uint("user_id", id).Msg("delete_user_success")
	return c.NoContent(http.StatusNoContent)
}
