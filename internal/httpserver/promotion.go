package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type PromotionHTTP struct {
	Svc *service.PromotionService
}

func (h *PromotionHTTP) ListPromotions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.list")

	var (
		items []models.Promotion
		err   error
	)
	if listAll(c) {
		items, err = h.Svc.ListAll(ctx)
	} else {
		items, err = h.Svc.ListActive(ctx)
	}
	if err != nil {
		return fail(l, "list_promotions", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PromotionHTTP) GetPromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.get")

	id, err := paramID(c, l, "get_promotion", "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_promotion", err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetByCode validates a promotion code. With ?subtotal= it also returns the
// discount that code would give.
func (h *PromotionHTTP) GetByCode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.get_by_code")

	var subtotal *decimal.Decimal
	if raw := c.QueryParam("subtotal"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return badRequest(l, "get_promotion_by_code", "subtotal must be a number", err)
		}
		subtotal = &d
	}

	q, err := h.Svc.ByCode(ctx, c.Param("code"), subtotal)
	if err != nil {
		return fail(l, "get_promotion_by_code", err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *PromotionHTTP) CreatePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.create")

	var req transport.PromotionRequest
	if err := bind(c, l, "create_promotion", &req); err != nil {
		return err
	}
	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_promotion", err)
	}
	l.Info().Str("code", p.Code).Msg("create_promotion_success")
	return c.JSON(http.StatusCreated, p)
}

func (h *PromotionHTTP) PatchPromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.patch")

	id, err := paramID(c, l, "patch_promotion", "id")
	if err != nil {
		return err
	}
	var req transport.PatchPromotionRequest
	if err := bind(c, l, "patch_promotion", &req); err != nil {
		return err
	}
	p, err := h.Svc.Patch(ctx, id, req)
	if err != nil {
		return fail(l, "patch_promotion", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PromotionHTTP) DeletePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "promotion.delete")

	id, err := paramID(c, l, "delete_promotion", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_promotion", err)
	}
	return c.NoContent(http.StatusNoContent)
}
