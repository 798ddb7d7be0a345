package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderPlaced(20 * time.Millisecond)
	m.OrderPlaced(30 * time.Millisecond)
	m.OrderRejected("insufficient_stock")
	m.StatusChanged("listo")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderRejections.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.orderRejections.WithLabelValues("product_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("listo")))
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg)
	b := New(reg)

	a.OrderPlaced(time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(b.ordersPlaced))
}

func TestNilMetrics(t *testing.T) {
	var m *ShopMetrics
	m.OrderPlaced(time.Second)
	m.OrderRejected("x")
	m.StatusChanged("x")
}

func TestMiddleware(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/9", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products/:id", "404")))
}

func TestMiddleware_PlainErrorCountsAs500(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.POST("/api/orders", func(c echo.Context) error {
		return errors.New("db down")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/orders", "500")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/orders", "200")))
}

func TestMiddleware_WrappedHTTPError(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/orders/:id", func(c echo.Context) error {
		return fmt.Errorf("load order: %w", echo.NewHTTPError(http.StatusForbidden, "not yours"))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/4", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/orders/:id", "403")))
}
