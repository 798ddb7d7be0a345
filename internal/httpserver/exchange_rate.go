package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type ExchangeRateHTTP struct {
	Svc *service.ExchangeRateService
}

func (h *ExchangeRateHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "exchange_rate.get")

	rate, err := h.Svc.Current(ctx)
	if err != nil {
		return fail(l, "get_exchange_rate", err)
	}
	return c.JSON(http.StatusOK, rate)
}

func (h *ExchangeRateHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "exchange_rate.update")

	var req transport.ExchangeRateRequest
	if err := bind(c, l, "update_exchange_rate", &req); err != nil {
		return err
	}

	a := actor(c)
	rate, err := h.Svc.Update(ctx, a, req.UsdToBs)
	if err != nil {
		return fail(l, "update_exchange_rate", err)
	}

	l.Info().Uint("admin_id", a.UserID).Str("usd_to_bs", rate.UsdToBs.StringFixed(2)).Msg("update_exchange_rate_success")
	return c.JSON(http.StatusOK, rate)
}
