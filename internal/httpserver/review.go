package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "review.list")

	var productID *uint
	if raw := c.QueryParam("product"); raw != "" {
		id, err := util.ParseID(raw)
		if err != nil {
			return badRequest(l, "list_reviews", "product must be a positive integer", err)
		}
		productID = &id
	}
	items, err := h.Svc.List(ctx, productID)
	if err != nil {
		return fail(l, "list_reviews", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "review.get")

	id, err := paramID(c, l, "get_review", "id")
	if err != nil {
		return err
	}
	r, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_review", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "review.create")

	var req transport.ReviewRequest
	if err := bind(c, l, "create_review", &req); err != nil {
		return err
	}
	r, err := h.Svc.Create(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create_review", err)
	}
	l.Info().Uint("review_id", r.ID).Uint("product_id", r.ProductID).Msg("create_review_success")
	return c.JSON(http.StatusCreated, r)
}

func (h *ReviewHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "review.update")

	id, err := paramID(c, l, "update_review", "id")
	if err != nil {
		return err
	}
	var req transport.PatchReviewRequest
	if err := bind(c, l, "update_review", &req); err != nil {
		return err
	}
	r, err := h.Svc.Update(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update_review", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "review.delete")

	id, err := paramID(c, l, "delete_review", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, actor(c), id); err != nil {
		return fail(l, "delete_review", err)
	}
	return c.NoContent(http.StatusNoContent)
}
