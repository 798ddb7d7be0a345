package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics is safe to use through a nil pointer; every method is a no-op then.
type ShopMetrics struct {
	ordersPlaced      prometheus.Counter
	orderRejections   *prometheus.CounterVec
	placementDuration prometheus.Histogram
	statusChanges     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		ordersPlaced: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweet_shop_orders_placed_total",
			Help: "Orders committed by checkout",
		})),
		orderRejections: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweet_shop_order_rejections_total",
			Help: "Checkout attempts rejected, by reason",
		}, []string{"reason"})),
		placementDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sweet_shop_order_placement_seconds",
			Help:    "Time spent in the checkout transaction",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		})),
		statusChanges: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweet_shop_order_status_changes_total",
			Help: "Order status transitions, by target status",
		}, []string{"status"})),
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweet_shop_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "code"})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sweet_shop_http_request_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := already.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type: %v", err))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

func (m *ShopMetrics) OrderPlaced(d time.Duration) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.placementDuration.Observe(d.Seconds())
}

func (m *ShopMetrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.orderRejections.WithLabelValues(reason).Inc()
}

func (m *ShopMetrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// Middleware records count and latency per route template.
func (m *ShopMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			// the error handler has not written the response yet
			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
