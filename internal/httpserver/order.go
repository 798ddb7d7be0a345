package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.place")

	var req transport.PlaceOrderRequest
	if err := bind(c, l, "place_order", &req); err != nil {
		return err
	}

	order, err := h.Svc.PlaceOrder(ctx, actor(c), req)
	if err != nil {
		return fail(l, "place_order", err)
	}

	l.Info().
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("place_order_success")
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.list")

	q := transport.OrderListQuery{Status: c.QueryParam("status")}
	if raw := c.QueryParam("user"); raw != "" {
		uid, err := util.ParseID(raw)
		if err != nil {
			return badRequest(l, "list_orders", "user must be a positive integer", err)
		}
		q.UserID = uid
	}

	orders, err := h.Svc.List(ctx, actor(c), q)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.get")

	id, err := paramID(c, l, "get_order", "id")
	if err != nil {
		return err
	}
	order, err := h.Svc.Get(ctx, actor(c), id)
	if err != nil {
		return fail(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetOrderByNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.get_by_number")

	order, err := h.Svc.GetByNumber(ctx, actor(c), c.Param("number"))
	if err != nil {
		return fail(l, "get_order_by_number", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.update_status")

	id, err := paramID(c, l, "update_order_status", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderStatusRequest
	if err := bind(c, l, "update_order_status", &req); err != nil {
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, actor(c), id, req.Status)
	if err != nil {
		return fail(l, "update_order_status", err)
	}
	l.Info().Str("order_number", order.OrderNumber).Str("status", string(order.Status)).Msg("update_order_status_success")
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "order.update_payment_status")

	id, err := paramID(c, l, "update_payment_status", "id")
	if err != nil {
		return err
	}
	var req transport.UpdatePaymentStatusRequest
	if err := bind(c, l, "update_payment_status", &req); err != nil {
		return err
	}

	order, err := h.Svc.UpdatePaymentStatus(ctx, actor(c), id, req.PaymentStatus)
	if err != nil {
		return fail(l, "update_payment_status", err)
	}
	return c.JSON(http.StatusOK, order)
}
