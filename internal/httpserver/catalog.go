package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// listAll is true when staff ask for inactive rows with ?all=true.
func listAll(c echo.Context) bool {
	all := util.ParseOptionalBool(c.QueryParam("all"))
	return staff(c) && all != nil && *all
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx, listAll(c))
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.get_category")

	id, err := paramID(c, l, "get_category", "id")
	if err != nil {
		return err
	}
	cat, err := h.Svc.GetCategory(ctx, id, staff(c))
	if err != nil {
		return fail(l, "get_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.create_category")

	var req transport.CategoryRequest
	if err := bind(c, l, "create_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create_category", err)
	}
	l.Info().Uint("category_id", cat.ID).Msg("create_category_success")
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.patch_category")

	id, err := paramID(c, l, "patch_category", "id")
	if err != nil {
		return err
	}
	var req transport.PatchCategoryRequest
	if err := bind(c, l, "patch_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.PatchCategory(ctx, id, req)
	if err != nil {
		return fail(l, "patch_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.delete_category")

	id, err := paramID(c, l, "delete_category", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category", err)
	}
	l.Info().Uint("category_id", id).Msg("delete_category_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.list_products")

	items, err := h.Svc.ListProducts(ctx, transport.ProductQuery{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		IsCombo:  util.ParseOptionalBool(c.QueryParam("isCombo")),
		All:      listAll(c),
	})
	if err != nil {
		return fail(l, "list_products", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.get_product")

	id, err := paramID(c, l, "get_product", "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id, staff(c))
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) GetProductBySlug(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.get_product_by_slug")

	p, err := h.Svc.GetProductBySlug(ctx, c.Param("slug"), staff(c))
	if err != nil {
		return fail(l, "get_product_by_slug", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) CollageImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.collage_images")

	images, err := h.Svc.CollageImages(ctx)
	if err != nil {
		return fail(l, "collage_images", err)
	}
	if images == nil {
		images = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.search_products")

	q := c.QueryParam("q")
	items, err := h.Svc.SearchProducts(ctx, q, util.ParseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return fail(l, "search_products", err)
	}
	l.Debug().Str("query", q).Int("hits", len(items)).Msg("search_products_success")
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.create_product")

	var req transport.ProductRequest
	if err := bind(c, l, "create_product", &req); err != nil {
		return err
	}
	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product", err)
	}
	l.Info().Uint("product_id", p.ID).Msg("create_product_success")
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.replace_product")

	id, err := paramID(c, l, "replace_product", "id")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := bind(c, l, "replace_product", &req); err != nil {
		return err
	}
	p, err := h.Svc.ReplaceProduct(ctx, id, req)
	if err != nil {
		return fail(l, "replace_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.patch_product")

	id, err := paramID(c, l, "patch_product", "id")
	if err != nil {
		return err
	}
	var req transport.PatchProductRequest
	if err := bind(c, l, "patch_product", &req); err != nil {
		return err
	}
	p, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(l, "patch_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.Handler(ctx, "catalog.delete_product")

	id, err := paramID(c, l, "delete_product", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product", err)
	}
	l.Info().Uint("product_id", id).Msg("delete_product_success")
	return c.NoContent(http.StatusNoContent)
}
