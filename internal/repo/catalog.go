package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

type ProductFilter struct {
	CategorySlug string
	Search       string
	IsCombo      *bool
	ActiveOnly   bool
}

func (r *GormRepo) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var items []models.Category
	q := r.DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error, "category")
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Save(c).Error, "category")
}

// DeleteCategory detaches the category's products before removing it.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.Category{}, id), "category")
	})
}

// SlugTaken reports whether model's table already holds slug on another row.
func (r *GormRepo) SlugTaken(ctx context.Context, model any, slug string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) productQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.productQuery(ctx).Model(&models.Product{}).Order("products.id ASC")
	if f.ActiveOnly {
		q = q.Where("products.is_active = ?", true)
	}
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?))", like, like)
	}
	if f.IsCombo != nil {
		q = q.Where("products.is_combo = ?", *f.IsCombo)
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ProductsByIDs keeps the order of ids and silently drops missing or inactive rows.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := r.productQuery(ctx).Where("id IN ? AND is_active = ?", ids, true).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint, activeOnly bool) (*models.Product, error) {
	var p models.Product
	q := r.productQuery(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.First(&p, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *GormRepo) GetProductBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Product, error) {
	var p models.Product
	q := r.productQuery(ctx).Where("slug = ?", slug)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "product")
}

// UpdateProduct saves scalar columns; when variants is non-nil it replaces the set.
func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product, variants []models.ProductVariant) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants", "Category").Save(p).Error; err != nil {
			return translate(err, "product")
		}
		if variants == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].ProductID = p.ID
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		p.Variants = variants
		return nil
	})
}

// DeleteProduct keeps order history: items lose the reference but keep their snapshot.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.ProductVariant{}, &models.Favorite{}, &models.Review{}} {
			if err := tx.Where("product_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return affected(tx.Delete(&models.Product{}, id), "product")
	})
}

func (r *GormRepo) ProductImages(ctx context.Context, limit int) ([]string, error) {
	var images []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ? AND image <> ''", true).
		Order("id ASC").
		Limit(limit).
		Pluck("image", &images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}
