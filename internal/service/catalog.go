package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

const (
	collageLimit       = 12
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	slugAttempts       = 50
)

// ProductSearcher is the full-text index kept next to the database.
type ProductSearcher interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	RemoveProduct(ctx context.Context, id uint) error
	SearchProductIDs(ctx context.Context, query string, size int) ([]uint, error)
}

type CatalogService struct {
	Repo      *repo.GormRepo
	Search    ProductSearcher
	Publisher mykafka.Publisher
}

func (s *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, !includeInactive)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint, includeInactive bool) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !c.IsActive {
		return nil, fmt.Errorf("%w: category", domain.ErrNotFound)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	slug, err := s.uniqueSlug(ctx, &models.Category{}, name, 0)
	if err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) PatchCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "required")
		}
		if name != c.Name {
			if c.Slug, err = s.uniqueSlug(ctx, &models.Category{}, name, c.ID); err != nil {
				return nil, err
			}
			c.Name = name
		}
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Image != nil {
		c.Image = *req.Image
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.Repo.DeleteCategory(ctx, id)
}

// uniqueSlug slugifies name and appends -2, -3 ... until the slug is free.
func (s *CatalogService) uniqueSlug(ctx context.Context, model any, name string, exceptID uint) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		return "", domain.NewValidationError("name", "must contain letters or digits")
	}
	for i := 1; i <= slugAttempts; i++ {
		slug := base
		if i > 1 {
			slug = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := s.Repo.SlugTaken(ctx, model, slug, exceptID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w: no free slug for %q", domain.ErrConflict, name)
}

func (s *CatalogService) ListProducts(ctx context.Context, q transport.ProductQuery) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{
		CategorySlug: strings.TrimSpace(q.Category),
		Search:       strings.TrimSpace(q.Search),
		IsCombo:      q.IsCombo,
		ActiveOnly:   !q.All,
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint, includeInactive bool) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id, !includeInactive)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string, includeInactive bool) (*models.Product, error) {
	return s.Repo.GetProductBySlug(ctx, slug, !includeInactive)
}

func (s *CatalogService) CollageImages(ctx context.Context) ([]string, error) {
	return s.Repo.ProductImages(ctx, collageLimit)
}

// SearchProducts asks the search index first and falls back to a LIKE
// query when there is no index or it is unreachable.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "required")
	}
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	if s.Search != nil {
		ids, err := s.Search.SearchProductIDs(ctx, query, limit)
		if err == nil {
			return s.Repo.ProductsByIDs(ctx, ids)
		}
		logging.FromContext(ctx).Warn().Err(err).Msg("product_search_index_failed")
	}

	items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Search: query, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p := &models.Product{}
	applyProduct(p, req)
	if err := s.checkProduct(ctx, p, req.Variants); err != nil {
		return nil, err
	}
	slug, err := s.uniqueSlug(ctx, &models.Product{}, p.Name, 0)
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	p.Variants = toVariants(req.Variants)

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, "product_created", p.ID)
}

// ReplaceProduct overwrites every field, variants included.
func (s *CatalogService) ReplaceProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id, false)
	if err != nil {
		return nil, err
	}
	oldName := p.Name
	applyProduct(p, req)
	if err := s.checkProduct(ctx, p, req.Variants); err != nil {
		return nil, err
	}
	if p.Name != oldName {
		if p.Slug, err = s.uniqueSlug(ctx, &models.Product{}, p.Name, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.UpdateProduct(ctx, p, toVariants(req.Variants)); err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, "product_updated", p.ID)
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id, false)
	if err != nil {
		return nil, err
	}
	oldName := p.Name
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.BasePrice != nil {
		p.BasePrice = *req.BasePrice
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.IsCombo != nil {
		p.IsCombo = *req.IsCombo
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if err := s.checkProduct(ctx, p, req.Variants); err != nil {
		return nil, err
	}
	if p.Name != oldName {
		if p.Slug, err = s.uniqueSlug(ctx, &models.Product{}, p.Name, p.ID); err != nil {
			return nil, err
		}
	}

	var variants []models.ProductVariant
	if req.Variants != nil {
		variants = toVariants(req.Variants)
	}
	if err := s.Repo.UpdateProduct(ctx, p, variants); err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, "product_updated", p.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if s.Search != nil {
		if err := s.Search.RemoveProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Uint("product_id", id).Msg("product_unindex_failed")
		}
	}
	publish(ctx, s.Publisher, mykafka.TopicProducts, util.FormatID(id), mykafka.ProductEvent{
		Type:      "product_deleted",
		ProductID: id,
	})
	return nil
}

// afterWrite reloads the product, then updates the index and announces the change.
func (s *CatalogService) afterWrite(ctx context.Context, eventType string, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Uint("product_id", id).Msg("product_index_failed")
		}
	}
	publish(ctx, s.Publisher, mykafka.TopicProducts, util.FormatID(id), mykafka.ProductEvent{
		Type:      eventType,
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Stock:     p.Stock,
	})
	return p, nil
}

func applyProduct(p *models.Product, req transport.ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.CategoryID = req.CategoryID
	p.Image = req.Image
	p.BasePrice = req.BasePrice
	p.Stock = req.Stock
	p.IsActive = boolOr(req.IsActive, true)
	p.Discount = req.Discount
	p.IsCombo = req.IsCombo
	p.Unit = req.Unit
	if p.Unit == "" {
		p.Unit = "unidad"
	}
}

func (s *CatalogService) checkProduct(ctx context.Context, p *models.Product, variants []transport.VariantRequest) error {
	ve := &domain.ValidationError{}
	if p.Name == "" {
		ve.Add("name", "required")
	}
	checkMoney(ve, "basePrice", p.BasePrice, false)
	if p.Stock < 0 {
		ve.Add("stock", "must not be negative")
	}
	if p.Discount < 0 || p.Discount > 100 {
		ve.Add("discount", "must be between 0 and 100")
	}
	for i, v := range variants {
		if strings.TrimSpace(v.Name) == "" {
			ve.Add(fmt.Sprintf("variants[%d].name", i), "required")
		}
		checkMoney(ve, fmt.Sprintf("variants[%d].price", i), v.Price, false)
	}
	if p.CategoryID != nil {
		_, err := s.Repo.GetCategory(ctx, *p.CategoryID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ve.Add("categoryId", "unknown category")
		case err != nil:
			return err
		}
	}
	return ve.OrNil()
}

func toVariants(in []transport.VariantRequest) []models.ProductVariant {
	out := make([]models.ProductVariant, 0, len(in))
	for _, v := range in {
		out = append(out, models.ProductVariant{
			Name:     strings.TrimSpace(v.Name),
			Price:    v.Price,
			IsActive: boolOr(v.IsActive, true),
		})
	}
	return out
}

// checkMoney enforces the decimal(10,2) columns: two decimals, below 10^8,
// and positive unless zeroOK.
func checkMoney(ve *domain.ValidationError, field string, v decimal.Decimal, zeroOK bool) {
	switch {
	case v.IsNegative():
		ve.Add(field, "must not be negative")
	case v.IsZero() && !zeroOK:
		ve.Add(field, "must be greater than 0")
	case !v.Equal(v.Round(2)):
		ve.Add(field, "at most 2 decimal places")
	case v.GreaterThanOrEqual(maxAmount):
		ve.Add(field, "too large")
	}
}

// maxAmount is the first value a decimal(10,2) column cannot hold.
var maxAmount = decimal.New(1, 8)

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
