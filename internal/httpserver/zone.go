package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type ZoneHTTP struct {
	Svc *service.ZoneService
}

func (h *ZoneHTTP) ListZones(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "zone.list")

	items, err := h.Svc.List(ctx, listAll(c))
	if err != nil {
		return fail(l, "list_zones", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ZoneHTTP) GetZone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "zone.get")

	id, err := paramID(c, l, "get_zone", "id")
	if err != nil {
		return err
	}
	z, err := h.Svc.Get(ctx, id, staff(c))
	if err != nil {
		return fail(l, "get_zone", err)
	}
	return c.JSON(http.StatusOK, z)
}

func (h *ZoneHTTP) CreateZone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "zone.create")

	var req transport.ZoneRequest
	if err := bind(c, l, "create_zone", &req); err != nil {
		return err
	}
	z, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_zone", err)
	}
	return c.JSON(http.StatusCreated, z)
}

func (h *ZoneHTTP) PatchZone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "zone.patch")

	id, err := paramID(c, l, "patch_zone", "id")
	if err != nil {
		return err
	}
	var req transport.PatchZoneRequest
	if err := bind(c, l, "patch_zone", &req); err != nil {
		return err
	}
	z, err := h.Svc.Patch(ctx, id, req)
	if err != nil {
		return fail(l, "patch_zone", err)
	}
	return c.JSON(http.StatusOK, z)
}

func (h *ZoneHTTP) DeleteZone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "zone.delete")

	id, err := paramID(c, l, "delete_zone", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_zone", err)
	}
	return c.NoContent(http.StatusNoContent)
}
