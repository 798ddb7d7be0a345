package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
)

const orderNumberAttempts = 5

type OrderLine struct {
	ProductID      uint
	VariantID      *uint
	Quantity       int
	Customizations datatypes.JSON
}

type OrderFilter struct {
	UserID *uint
	Status models.OrderStatus
}

// NewOrderNumber is the first eight hex digits of a random UUID, upper-cased.
func NewOrderNumber() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder writes order and its items in one transaction. Each line locks
// its product row, checks and decrements stock, then snapshots name, image and
// price into the item. Any failure rolls the whole thing back.
// order must carry customer, delivery and payment fields plus DeliveryCost.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, lines []OrderLine, newNumber func() string) error {
	if newNumber == nil {
		newNumber = NewOrderNumber
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := freeOrderNumber(tx, newNumber)
		if err != nil {
			return err
		}

		order.ID = 0
		order.OrderNumber = number
		order.Status = models.StatusReceived
		order.PaymentStatus = models.PaymentPending
		order.Subtotal = decimal.Zero
		order.Total = decimal.Zero
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return translate(err, "order")
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			item, err := reserveLine(tx, order.ID, line)
			if err != nil {
				return err
			}
			subtotal = subtotal.Add(item.TotalPrice)
			items = append(items, *item)
		}

		order.Subtotal = subtotal
		order.Total = subtotal.Add(order.DeliveryCost)
		if err := tx.Model(order).Updates(map[string]any{
			"subtotal": order.Subtotal,
			"total":    order.Total,
		}).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

func freeOrderNumber(tx *gorm.DB, newNumber func() string) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		n := newNumber()
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", n).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: no free order number after %d attempts", domain.ErrConflict, orderNumberAttempts)
}

func reserveLine(tx *gorm.DB, orderID uint, line OrderLine) (*models.OrderItem, error) {
	if line.Quantity <= 0 {
		return nil, &domain.InvalidQuantityError{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	var product models.Product
	if err := forUpdate(tx).First(&product, line.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
	}
	if product.Stock < line.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   line.Quantity,
		}
	}

	unit := product.Price()
	variantName := ""
	if line.VariantID != nil {
		var v models.ProductVariant
		err := tx.Where("id = ? AND product_id = ? AND is_active = ?", *line.VariantID, product.ID, true).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewValidationError("variantId",
				fmt.Sprintf("variant %d is not available for product %d", *line.VariantID, product.ID))
		}
		if err != nil {
			return nil, err
		}
		unit = models.ApplyDiscount(v.Price, product.Discount)
		variantName = v.Name
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", product.ID, line.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   line.Quantity,
		}
	}

	productID := product.ID
	item := &models.OrderItem{
		OrderID:        orderID,
		ProductID:      &productID,
		VariantID:      line.VariantID,
		ProductName:    product.Name,
		ProductImage:   product.Image,
		VariantName:    variantName,
		Quantity:       line.Quantity,
		UnitPrice:      unit,
		TotalPrice:     unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
		Customizations: line.Customizations,
	}
	if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GormRepo) orderQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("DeliveryZone")
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.orderQuery(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *GormRepo) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	if err := r.orderQuery(ctx).Where("order_number = ?", strings.ToUpper(number)).First(&o).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.orderQuery(ctx).Order("created_at DESC").Order("id DESC")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionOrder locks the order, lets check veto the move, then applies it.
// Cancelling puts every item's quantity back on its product. note, when it
// returns non-nil, is stored in the same transaction.
func (r *GormRepo) TransitionOrder(
	ctx context.Context,
	id uint,
	to models.OrderStatus,
	check func(*models.Order) error,
	note func(*models.Order) *models.Notification,
) (from models.OrderStatus, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, id).Error; err != nil {
			return translate(err, "order")
		}
		from = order.Status
		if err := check(&order); err != nil {
			return err
		}

		if to == models.StatusCancelled {
			var items []models.OrderItem
			if err := tx.Where("order_id = ? AND product_id IS NOT NULL", order.ID).Find(&items).Error; err != nil {
				return err
			}
			for _, it := range items {
				if err := tx.Model(&models.Product{}).Where("id = ?", *it.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return err
		}

		if note != nil {
			if n := note(&order); n != nil {
				if err := tx.Create(n).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return from, err
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return affected(r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("payment_status", status), "order")
}

// HasPurchased is true when a non-cancelled order of userID contains productID.
func (r *GormRepo) HasPurchased(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status <> ?",
			userID, productID, models.StatusCancelled).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
