package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/mail"
	"github.com/Skotchmaster/sweet_shop/internal/metrics"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type OrderService struct {
	Repo      *repo.GormRepo
	Publisher mykafka.Publisher
	Mailer    mail.Mailer
	Metrics   *metrics.ShopMetrics
	// NewNumber replaces the order number generator; nil means repo.NewOrderNumber.
	NewNumber func() string
}

// PlaceOrder checks the cart, then hands it to the checkout transaction.
// Totals are always computed here from current prices.
func (s *OrderService) PlaceOrder(ctx context.Context, actor Actor, req transport.PlaceOrderRequest) (*models.Order, error) {
	order, lines, err := s.prepare(ctx, actor, req)
	if err != nil {
		s.Metrics.OrderRejected(rejectionReason(err))
		return nil, err
	}

	start := time.Now()
	if err := s.Repo.PlaceOrder(ctx, order, lines, s.NewNumber); err != nil {
		s.Metrics.OrderRejected(rejectionReason(err))
		return nil, err
	}
	s.Metrics.OrderPlaced(time.Since(start))

	placed, err := s.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, mykafka.TopicOrders, placed.OrderNumber, orderCreated(placed))
	subject := fmt.Sprintf("Pedido %s recibido", placed.OrderNumber)
	if err := sendTemplate(ctx, s.Mailer, placed.CustomerEmail, subject, "order_confirmation.html", placed); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("order_number", placed.OrderNumber).
			Msg("order_confirmation_mail_failed")
	}
	return placed, nil
}

func (s *OrderService) prepare(ctx context.Context, actor Actor, req transport.PlaceOrderRequest) (*models.Order, []repo.OrderLine, error) {
	ve := &domain.ValidationError{}
	if len(req.Items) == 0 {
		ve.Add("items", "at least one item is required")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, nil, &domain.InvalidQuantityError{ProductID: it.ProductID, Quantity: it.Quantity}
		}
		if it.ProductID == 0 {
			ve.Add("items", "every item needs a productId")
		}
	}

	order := &models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		DeliveryType:  models.DeliveryType(req.DeliveryType),
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		DeliveryCost:  decimal.Zero,
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		order.UserID = &uid
	}
	if order.CustomerName == "" {
		ve.Add("customerName", "required")
	}
	if order.CustomerEmail == "" {
		ve.Add("customerEmail", "required")
	}
	if order.CustomerPhone == "" {
		ve.Add("customerPhone", "required")
	}
	if !order.PaymentMethod.Valid() {
		ve.Add("paymentMethod", "must be one of tarjeta, pago_movil, efectivo")
	}

	switch order.DeliveryType {
	case models.DeliveryHome:
		if err := s.resolveDelivery(ctx, actor, req, order, ve); err != nil {
			return nil, nil, err
		}
	case models.DeliveryPickup:
		order.PickupTime = req.PickupTime
	default:
		ve.Add("deliveryType", "must be delivery or pickup")
	}
	if err := ve.OrNil(); err != nil {
		return nil, nil, err
	}

	lines := make([]repo.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		line := repo.OrderLine{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity}
		if raw := bytes.TrimSpace(it.Customizations); len(raw) > 0 && string(raw) != "null" {
			line.Customizations = datatypes.JSON(raw)
		}
		lines = append(lines, line)
	}
	return order, lines, nil
}

// resolveDelivery fills address, zone and cost. A saved address supplies
// whatever the request leaves empty.
func (s *OrderService) resolveDelivery(ctx context.Context, actor Actor, req transport.PlaceOrderRequest, order *models.Order, ve *domain.ValidationError) error {
	address := strings.TrimSpace(req.DeliveryAddress)
	zoneID := req.DeliveryZoneID

	if req.AddressID != nil {
		saved, err := s.Repo.GetAddress(ctx, actor.UserID, *req.AddressID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ve.Add("addressId", "address not found")
		case err != nil:
			return err
		default:
			if address == "" {
				address = saved.Address
				if saved.Reference != "" {
					address += " (" + saved.Reference + ")"
				}
			}
			if zoneID == nil {
				zoneID = saved.DeliveryZoneID
			}
		}
	}

	if address == "" {
		ve.Add("deliveryAddress", "required for delivery orders")
	}
	if zoneID == nil {
		ve.Add("deliveryZoneId", "required for delivery orders")
		return nil
	}
	zone, err := s.Repo.GetZone(ctx, *zoneID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !zone.IsActive) {
		ve.Add("deliveryZoneId", "unknown or inactive delivery zone")
		return nil
	}
	if err != nil {
		return err
	}

	order.DeliveryAddress = address
	order.DeliveryZoneID = &zone.ID
	order.DeliveryCost = zone.Price
	return nil
}

func rejectionReason(err error) string {
	var (
		stock    *domain.InsufficientStockError
		missing  *domain.ProductNotFoundError
		quantity *domain.InvalidQuantityError
	)
	switch {
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.As(err, &missing):
		return "product_not_found"
	case errors.As(err, &quantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func orderCreated(o *models.Order) mykafka.OrderCreated {
	lines := make([]mykafka.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, mykafka.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return mykafka.OrderCreated{
		Type:        "order_created",
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Total:       o.Total,
		Items:       lines,
		CreatedAt:   o.CreatedAt,
	}
}

// List shows staff every order; everyone else only sees their own.
func (s *OrderService) List(ctx context.Context, actor Actor, q transport.OrderListQuery) ([]models.Order, error) {
	var f repo.OrderFilter
	if q.Status != "" {
		st := models.OrderStatus(q.Status)
		if !st.Valid() {
			return nil, domain.NewValidationError("status", "unknown order status")
		}
		f.Status = st
	}
	if actor.IsStaff() {
		if q.UserID != 0 {
			uid := q.UserID
			f.UserID = &uid
		}
	} else {
		uid := actor.UserID
		f.UserID = &uid
	}
	return s.Repo.ListOrders(ctx, f)
}

func (s *OrderService) Get(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canSee(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) GetByNumber(ctx context.Context, actor Actor, number string) (*models.Order, error) {
	o, err := s.Repo.GetOrderByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if err := canSee(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func canSee(actor Actor, o *models.Order) error {
	if actor.IsStaff() {
		return nil
	}
	if o.UserID == nil || *o.UserID != actor.UserID {
		return fmt.Errorf("%w: order belongs to another customer", domain.ErrForbidden)
	}
	return nil
}

var statusMessages = map[models.OrderStatus]string{
	models.StatusReceived:  "Recibimos tu pedido.",
	models.StatusPreparing: "Estamos preparando tu pedido.",
	models.StatusReady:     "Tu pedido está listo.",
	models.StatusOnTheWay:  "Tu pedido va en camino.",
	models.StatusDelivered: "Tu pedido fue entregado. ¡Buen provecho!",
	models.StatusCancelled: "Tu pedido fue cancelado.",
}

// UpdateStatus moves an order along its lifecycle. Cancelling restocks.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id uint, status string) (*models.Order, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: staff only", domain.ErrForbidden)
	}
	to := models.OrderStatus(status)
	if !to.Valid() {
		return nil, domain.NewValidationError("status", "unknown order status")
	}

	check := func(o *models.Order) error {
		if !models.CanTransition(o.Status, to, o.DeliveryType) {
			return fmt.Errorf("%w: order %s cannot go from %s to %s", domain.ErrConflict, o.OrderNumber, o.Status, to)
		}
		return nil
	}
	note := func(o *models.Order) *models.Notification {
		if o.UserID == nil {
			return nil
		}
		orderID := o.ID
		return &models.Notification{
			UserID:  *o.UserID,
			OrderID: &orderID,
			Title:   fmt.Sprintf("Pedido %s actualizado", o.OrderNumber),
			Message: statusMessages[to],
		}
	}

	from, err := s.Repo.TransitionOrder(ctx, id, to, check, note)
	if err != nil {
		return nil, err
	}
	s.Metrics.StatusChanged(string(to))

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Publisher, mykafka.TopicOrders, o.OrderNumber, mykafka.OrderStatusChanged{
		Type:        "order_status_changed",
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        string(from),
		To:          string(to),
		ChangedBy:   actor.UserID,
	})
	return o, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, actor Actor, id uint, status string) (*models.Order, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: staff only", domain.ErrForbidden)
	}
	ps := models.PaymentStatus(status)
	if !ps.Valid() {
		return nil, domain.NewValidationError("paymentStatus", "must be one of pendiente, pagado, fallido")
	}
	if err := s.Repo.UpdatePaymentStatus(ctx, id, ps); err != nil {
		return nil, err
	}
	return s.Repo.GetOrder(ctx, id)
}
