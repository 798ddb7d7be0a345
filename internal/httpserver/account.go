package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

// AccountHTTP serves the caller's own addresses, favorites and notifications.
type AccountHTTP struct {
	Addresses     *service.AddressService
	Favorites     *service.FavoriteService
	Notifications *service.NotificationService
}

func (h *AccountHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.list_addresses")

	items, err := h.Addresses.List(ctx, actor(c).UserID)
	if err != nil {
		return fail(l, "list_addresses", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AccountHTTP) GetAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.get_address")

	id, err := paramID(c, l, "get_address", "id")
	if err != nil {
		return err
	}
	a, err := h.Addresses.Get(ctx, actor(c).UserID, id)
	if err != nil {
		return fail(l, "get_address", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AccountHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.create_address")

	var req transport.AddressRequest
	if err := bind(c, l, "create_address", &req); err != nil {
		return err
	}
	a, err := h.Addresses.Create(ctx, actor(c).UserID, req)
	if err != nil {
		return fail(l, "create_address", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AccountHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.update_address")

	id, err := paramID(c, l, "update_address", "id")
	if err != nil {
		return err
	}
	var req transport.PatchAddressRequest
	if err := bind(c, l, "update_address", &req); err != nil {
		return err
	}
	a, err := h.Addresses.Update(ctx, actor(c).UserID, id, req)
	if err != nil {
		return fail(l, "update_address", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AccountHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.delete_address")

	id, err := paramID(c, l, "delete_address", "id")
	if err != nil {
		return err
	}
	if err := h.Addresses.Delete(ctx, actor(c).UserID, id); err != nil {
		return fail(l, "delete_address", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) ListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.list_favorites")

	ids, err := h.Favorites.List(ctx, actor(c).UserID)
	if err != nil {
		return fail(l, "list_favorites", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return c.JSON(http.StatusOK, echo.Map{"productIds": ids})
}

func (h *AccountHTTP) AddFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.add_favorite")

	var req transport.FavoriteRequest
	if err := bind(c, l, "add_favorite", &req); err != nil {
		return err
	}
	fav, created, err := h.Favorites.Add(ctx, actor(c).UserID, req.ProductID)
	if err != nil {
		return fail(l, "add_favorite", err)
	}
	if !created {
		return c.JSON(http.StatusOK, fav)
	}
	return c.JSON(http.StatusCreated, fav)
}

func (h *AccountHTTP) RemoveFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.remove_favorite")

	productID, err := paramID(c, l, "remove_favorite", "productId")
	if err != nil {
		return err
	}
	if err := h.Favorites.Remove(ctx, actor(c).UserID, productID); err != nil {
		return fail(l, "remove_favorite", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.list_notifications")

	items, err := h.Notifications.List(ctx, actor(c).UserID)
	if err != nil {
		return fail(l, "list_notifications", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AccountHTTP) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.mark_notification_read")

	id, err := paramID(c, l, "mark_notification_read", "id")
	if err != nil {
		return err
	}
	if err := h.Notifications.MarkRead(ctx, actor(c).UserID, id); err != nil {
		return fail(l, "mark_notification_read", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) MarkAllNotificationsRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "account.mark_all_notifications_read")

	n, err := h.Notifications.MarkAllRead(ctx, actor(c).UserID)
	if err != nil {
		return fail(l, "mark_all_notifications_read", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
