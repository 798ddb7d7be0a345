package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/db"
	"github.com/Skotchmaster/sweet_shop/internal/dbtest"
	"github.com/Skotchmaster/sweet_shop/internal/hash"
	"github.com/Skotchmaster/sweet_shop/internal/mail"
	"github.com/Skotchmaster/sweet_shop/internal/metrics"
	authmw "github.com/Skotchmaster/sweet_shop/internal/middleware/auth"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/tokens"
	"github.com/Skotchmaster/sweet_shop/internal/tokenstore"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	issuer *tokens.Issuer
	outbox *mail.Outbox
	events *mykafka.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb := dbtest.New(t)
	r := repo.New(gdb)
	iss := &tokens.Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	outbox := &mail.Outbox{}
	events := &mykafka.Recorder{}
	reg := prometheus.NewRegistry()

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler
	Register(e, &Deps{
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Publisher: events}},
		Orders: &OrderHTTP{Svc: &service.OrderService{
			Repo: r, Publisher: events, Mailer: outbox, Metrics: metrics.New(reg),
		}},
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo:        r,
			Tokens:      iss,
			Store:       tokenstore.NewMemoryStore(),
			Mailer:      outbox,
			Publisher:   events,
			FrontendURL: "http://shop.test",
			ResetTTL:    time.Hour,
			VerifyTTL:   24 * time.Hour,
		}},
		Account: &AccountHTTP{
			Addresses:     &service.AddressService{Repo: r},
			Favorites:     &service.FavoriteService{Repo: r},
			Notifications: &service.NotificationService{Repo: r},
		},
		Reviews:      &ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Zones:        &ZoneHTTP{Svc: &service.ZoneService{Repo: r}},
		Promotions:   &PromotionHTTP{Svc: &service.PromotionService{Repo: r}},
		Admin:        &AdminHTTP{Users: &service.UserService{Repo: r}, Dashboard: &service.DashboardService{Repo: r}},
		ExchangeRate: &ExchangeRateHTTP{Svc: &service.ExchangeRateService{Store: &repo.ExchangeRateStore{Repo: r}, Default: decimal.RequireFromString("35.00")}},
		Authenticator: authmw.NewAuthenticator(iss.AccessSecret),
		Ready:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Gatherer:      reg,
	})
	return &testServer{e: e, repo: r, issuer: iss, outbox: outbox, events: events}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) user(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()
	u := &models.User{Email: email, Name: "Test", Role: role, PasswordHash: "-", IsActive: true}
	require.NoError(t, s.repo.CreateUser(context.Background(), u))
	pair, err := s.issuer.Issue(u.ID, string(role))
	require.NoError(t, err)
	return u, pair.AccessToken
}

func (s *testServer) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		Slug:      util.Slugify(name),
		BasePrice: decimal.RequireFromString(price),
		Stock:     stock,
		IsActive:  true,
		Unit:      "unidad",
	}
	require.NoError(t, s.repo.CreateProduct(context.Background(), p))
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func orderBody(productID uint, qty int) map[string]any {
	return map[string]any{
		"customerName":  "María Pérez",
		"customerEmail": "maria@example.com",
		"customerPhone": "04141234567",
		"deliveryType":  "pickup",
		"paymentMethod": "efectivo",
		"items":         []map[string]any{{"productId": productID, "quantity": qty}},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweet_shop_orders_placed_total")
}

func TestExchangeRate(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.user(t, "admin@example.com", models.RoleAdmin)
	_, customer := s.user(t, "cliente@example.com", models.RoleCustomer)

	type rateBody struct {
		UsdToBs decimal.Decimal `json:"usdToBs"`
	}

	rec := s.do(t, http.MethodGet, "/api/exchange-rate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[rateBody](t, rec).UsdToBs.Equal(decimal.RequireFromString("35.00")))

	rec = s.do(t, http.MethodPatch, "/api/exchange-rate", "", map[string]any{"usdToBs": 36.5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[ErrorBody](t, rec).Error)

	rec = s.do(t, http.MethodPatch, "/api/exchange-rate", customer, map[string]any{"usdToBs": 36.5})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, bad := range []any{0, -3, "abc"} {
		rec = s.do(t, http.MethodPatch, "/api/exchange-rate", admin, map[string]any{"usdToBs": bad})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rate %v", bad)
	}
	rec = s.do(t, http.MethodPatch, "/api/exchange-rate", admin, map[string]any{"usdToBs": 0})
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, "validation_error", body.Error)
	assert.Contains(t, body.Fields, "usdToBs")

	rec = s.do(t, http.MethodPatch, "/api/exchange-rate/update", admin, map[string]any{"usdToBs": "36.50"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/exchange-rate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "36.50", decode[rateBody](t, rec).UsdToBs.StringFixed(2))
}

func TestPlaceOrder_HTTP(t *testing.T) {
	s := newTestServer(t)
	cake := s.product(t, "Torta Tres Leches", "12.50", 5)
	_, token := s.user(t, "maria@example.com", models.RoleCustomer)
	_, other := s.user(t, "pedro@example.com", models.RoleCustomer)
	_, clerk := s.user(t, "caja@example.com", models.RoleReceptionist)

	t.Run("requires auth", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/orders", "", orderBody(cake.ID, 1)).Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/orders", token, orderBody(cake.ID, 6))
		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode[ErrorBody](t, rec)
		assert.Equal(t, "insufficient_stock", body.Error)
		assert.EqualValues(t, 5, body.Details["available"])
		assert.EqualValues(t, 6, body.Details["requested"])
		assert.Equal(t, "Torta Tres Leches", body.Details["productName"])
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/orders", token, orderBody(9999, 1))
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product_not_found", decode[ErrorBody](t, rec).Error)
	})

	t.Run("bad quantity", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/orders", token, orderBody(cake.ID, 0))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_quantity", decode[ErrorBody](t, rec).Error)
	})

	var placed models.Order
	t.Run("success", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/orders", token, orderBody(cake.ID, 2))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		placed = decode[models.Order](t, rec)
		assert.Equal(t, "25.00", placed.Total.StringFixed(2))
		require.Len(t, placed.Items, 1)
		assert.Equal(t, "12.50", placed.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, models.StatusReceived, placed.Status)
	})

	t.Run("visibility", func(t *testing.T) {
		path := "/api/orders/" + util.FormatID(placed.ID)
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, token, nil).Code)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, other, nil).Code)
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/orders/number/"+placed.OrderNumber, clerk, nil).Code)

		mine := decode[[]models.Order](t, s.do(t, http.MethodGet, "/api/orders", token, nil))
		assert.Len(t, mine, 1)
		theirs := decode[[]models.Order](t, s.do(t, http.MethodGet, "/api/orders", other, nil))
		assert.Empty(t, theirs)
	})

	t.Run("status transitions are staff only", func(t *testing.T) {
		path := "/api/orders/" + util.FormatID(placed.ID) + "/status"
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, token, map[string]any{"status": "en_preparacion"}).Code)

		rec := s.do(t, http.MethodPatch, path, clerk, map[string]any{"status": "en_preparacion"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, models.StatusPreparing, decode[models.Order](t, rec).Status)

		notes := decode[[]models.Notification](t, s.do(t, http.MethodGet, "/api/notifications", token, nil))
		assert.NotEmpty(t, notes)
	})
}

func TestPlaceOrder_ConcurrentRequests(t *testing.T) {
	s := newTestServer(t)
	cake := s.product(t, "Marquesa", "8.00", 5)
	_, token := s.user(t, "maria@example.com", models.RoleCustomer)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = s.do(t, http.MethodPost, "/api/orders", token, orderBody(cake.ID, 3)).Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	p, err := s.repo.GetProduct(context.Background(), cake.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "maria@example.com", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"customerEmail": "not-an-email",
		"deliveryType":  "drone",
		"items":         []map[string]any{{"quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "required", body.Fields["customerName"])
	assert.Equal(t, "must be a valid email", body.Fields["customerEmail"])
	assert.Equal(t, "must be one of: delivery, pickup", body.Fields["deliveryType"])
	assert.Equal(t, "required", body.Fields["items[0].productId"])

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[ErrorBody](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorBody](t, rec).Error)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "secreto123", "name": "Ana",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	type session struct {
		User         models.User `json:"user"`
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
	}
	reg := decode[session](t, rec)
	assert.Equal(t, models.RoleCustomer, reg.User.Role)
	assert.NotEmpty(t, reg.AccessToken)

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = ck.Value != ""
	}
	assert.True(t, names[authmw.AccessCookie])
	assert.True(t, names[authmw.RefreshCookie])
	require.Len(t, s.outbox.Sent(), 1)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "secreto123", "name": "Ana",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/me", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", decode[models.User](t, rec).Email)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "equivocada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "secreto123"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[session](t, rec)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decode[session](t, rec)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "rotated token is single use")

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", map[string]any{"refreshToken": refreshed.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refreshed.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetAnswersTheSame(t *testing.T) {
	s := newTestServer(t)
	u, _ := s.user(t, "ana@example.com", models.RoleCustomer)
	pw, err := hash.HashPassword("original1")
	require.NoError(t, err)
	_, err = s.repo.UpdateUser(context.Background(), u.ID, map[string]any{"password_hash": pw})
	require.NoError(t, err)

	known := s.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]any{"email": "ana@example.com"})
	unknown := s.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]any{"email": "nadie@example.com"})
	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
	assert.Len(t, s.outbox.Sent(), 1)

	rec := s.do(t, http.MethodPost, "/api/auth/password-reset/confirm", "", map[string]any{"token": "nope", "newPassword": "nuevaclave1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogAccess(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.user(t, "admin@example.com", models.RoleAdmin)
	_, customer := s.user(t, "cliente@example.com", models.RoleCustomer)

	newProduct := map[string]any{"name": "Quesillo", "basePrice": "4.00", "stock": 3}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/products", "", newProduct).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/products", customer, newProduct).Code)

	rec := s.do(t, http.MethodPost, "/api/products", admin, newProduct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[models.Product](t, rec)
	assert.Equal(t, "quesillo", p.Slug)

	rec = s.do(t, http.MethodGet, "/api/products/slug/quesillo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/products/"+util.FormatID(p.ID), admin, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path := "/api/products/" + util.FormatID(p.ID)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, admin, nil).Code)

	public := decode[[]models.Product](t, s.do(t, http.MethodGet, "/api/products", "", nil))
	assert.Empty(t, public)
	all := decode[[]models.Product](t, s.do(t, http.MethodGet, "/api/products?all=true", admin, nil))
	assert.Len(t, all, 1)
	hidden := decode[[]models.Product](t, s.do(t, http.MethodGet, "/api/products?all=true", customer, nil))
	assert.Empty(t, hidden)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Len(t, s.events.Of(mykafka.TopicProducts, "product_deleted"), 1)
}

func TestAccountRoutes(t *testing.T) {
	s := newTestServer(t)
	cake := s.product(t, "Torta Selva Negra", "15.00", 4)
	_, token := s.user(t, "maria@example.com", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/favorites", token, map[string]any{"productId": cake.ID})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/favorites", token, map[string]any{"productId": cake.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/favorites", token, nil)
	assert.JSONEq(t, `{"productIds":[`+util.FormatID(cake.ID)+`]}`, rec.Body.String())
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/favorites/"+util.FormatID(cake.ID), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/favorites/"+util.FormatID(cake.ID), token, nil).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/addresses", token, map[string]any{"label": "Casa", "address": "Av. Principal 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[models.Address](t, rec)
	assert.True(t, first.IsDefault)

	rec = s.do(t, http.MethodPost, "/api/auth/addresses", token, map[string]any{"label": "Oficina", "address": "Calle 2", "isDefault": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	addrs := decode[[]models.Address](t, s.do(t, http.MethodGet, "/api/auth/addresses", token, nil))
	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	rec = s.do(t, http.MethodPost, "/api/reviews", token, map[string]any{"productId": cake.ID, "rating": 5, "comment": "Deliciosa"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/reviews", token, map[string]any{"productId": cake.ID, "rating": 4})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/reviews", token, map[string]any{"productId": cake.ID, "rating": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reviews := decode[[]models.Review](t, s.do(t, http.MethodGet, "/api/reviews?product="+util.FormatID(cake.ID), "", nil))
	assert.Len(t, reviews, 1)
}

func TestPromotionByCode(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.user(t, "admin@example.com", models.RoleAdmin)
	now := time.Now().UTC()

	rec := s.do(t, http.MethodPost, "/api/promotions", admin, map[string]any{
		"title":         "Diez por ciento",
		"code":          "dulce10",
		"discountType":  "percentage",
		"discountValue": "10",
		"minPurchase":   "20",
		"validFrom":     now.Add(-time.Hour),
		"validUntil":    now.Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	type quote struct {
		Code     string           `json:"code"`
		Discount *decimal.Decimal `json:"discount"`
	}
	rec = s.do(t, http.MethodGet, "/api/promotions/code/DULCE10?subtotal=50", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decode[quote](t, rec)
	require.NotNil(t, q.Discount)
	assert.Equal(t, "5.00", q.Discount.StringFixed(2))

	rec = s.do(t, http.MethodGet, "/api/promotions/code/DULCE10?subtotal=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/promotions/code/NOPE", "", nil).Code)
}

func TestDashboardIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.user(t, "admin@example.com", models.RoleAdmin)
	_, clerk := s.user(t, "caja@example.com", models.RoleReceptionist)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/dashboard/stats", clerk, nil).Code)
	rec := s.do(t, http.MethodGet, "/api/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[service.DashboardStats](t, rec)
	assert.EqualValues(t, 0, st.TotalUsers)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users/email/caja@example.com", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", clerk, nil).Code)
}
