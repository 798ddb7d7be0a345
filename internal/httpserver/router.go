package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	authmw "github.com/Skotchmaster/sweet_shop/internal/middleware/auth"
)

type Deps struct {
	Catalog       *CatalogHTTP
	Orders        *OrderHTTP
	Auth          *AuthHTTP
	Account       *AccountHTTP
	Reviews       *ReviewHTTP
	Zones         *ZoneHTTP
	Promotions    *PromotionHTTP
	Admin         *AdminHTTP
	ExchangeRate  *ExchangeRateHTTP
	Authenticator *authmw.Authenticator

	// Ready backs /health/ready, usually a database ping.
	Ready func(ctx context.Context) error
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("readiness_check_failed")
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	optional := d.Authenticator.OptionalAuth
	private := d.Authenticator.RequireAuth
	staffOnly := []echo.MiddlewareFunc{private, authmw.RequireStaff}
	adminOnly := []echo.MiddlewareFunc{private, authmw.RequireAdmin}

	api := e.Group("/api")

	categories := api.Group("/categories")
	categories.GET("", d.Catalog.ListCategories, optional)
	categories.GET("/:id", d.Catalog.GetCategory, optional)
	categories.POST("", d.Catalog.CreateCategory, adminOnly...)
	categories.PATCH("/:id", d.Catalog.PatchCategory, adminOnly...)
	categories.DELETE("/:id", d.Catalog.DeleteCategory, adminOnly...)

	products := api.Group("/products")
	products.GET("", d.Catalog.ListProducts, optional)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/collage-images", d.Catalog.CollageImages)
	products.GET("/slug/:slug", d.Catalog.GetProductBySlug, optional)
	products.GET("/:id", d.Catalog.GetProduct, optional)
	products.POST("", d.Catalog.CreateProduct, adminOnly...)
	products.PUT("/:id", d.Catalog.ReplaceProduct, adminOnly...)
	products.PATCH("/:id", d.Catalog.PatchProduct, adminOnly...)
	products.DELETE("/:id", d.Catalog.DeleteProduct, adminOnly...)

	orders := api.Group("/orders")
	orders.GET("", d.Orders.ListOrders, private)
	orders.POST("", d.Orders.PlaceOrder, private)
	orders.GET("/number/:number", d.Orders.GetOrderByNumber, private)
	orders.GET("/:id", d.Orders.GetOrder, private)
	orders.PATCH("/:id/status", d.Orders.UpdateStatus, staffOnly...)
	orders.PATCH("/:id/payment-status", d.Orders.UpdatePaymentStatus, staffOnly...)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/password-reset", d.Auth.RequestPasswordReset)
	auth.POST("/password-reset/confirm", d.Auth.ConfirmPasswordReset)
	auth.POST("/verify-email", d.Auth.VerifyEmail)
	auth.GET("/me", d.Auth.Me, private)
	auth.PATCH("/profile", d.Auth.UpdateProfile, private)
	auth.POST("/resend-verification", d.Auth.ResendVerification, private)

	auth.GET("/addresses", d.Account.ListAddresses, private)
	auth.POST("/addresses", d.Account.CreateAddress, private)
	auth.GET("/addresses/:id", d.Account.GetAddress, private)
	auth.PATCH("/addresses/:id", d.Account.UpdateAddress, private)
	auth.DELETE("/addresses/:id", d.Account.DeleteAddress, private)

	api.GET("/favorites", d.Account.ListFavorites, private)
	api.POST("/favorites", d.Account.AddFavorite, private)
	api.DELETE("/favorites/:productId", d.Account.RemoveFavorite, private)

	api.GET("/notifications", d.Account.ListNotifications, private)
	api.PATCH("/notifications/:id/read", d.Account.MarkNotificationRead, private)
	api.POST("/notifications/read-all", d.Account.MarkAllNotificationsRead, private)

	zones := api.Group("/delivery-zones")
	zones.GET("", d.Zones.ListZones, optional)
	zones.GET("/:id", d.Zones.GetZone, optional)
	zones.POST("", d.Zones.CreateZone, adminOnly...)
	zones.PATCH("/:id", d.Zones.PatchZone, adminOnly...)
	zones.DELETE("/:id", d.Zones.DeleteZone, adminOnly...)

	promos := api.Group("/promotions")
	promos.GET("", d.Promotions.ListPromotions, optional)
	promos.GET("/code/:code", d.Promotions.GetByCode)
	promos.GET("/:id", d.Promotions.GetPromotion)
	promos.POST("", d.Promotions.CreatePromotion, adminOnly...)
	promos.PATCH("/:id", d.Promotions.PatchPromotion, adminOnly...)
	promos.DELETE("/:id", d.Promotions.DeletePromotion, adminOnly...)

	reviews := api.Group("/reviews")
	reviews.GET("", d.Reviews.ListReviews)
	reviews.GET("/:id", d.Reviews.GetReview)
	reviews.POST("", d.Reviews.CreateReview, private)
	reviews.PATCH("/:id", d.Reviews.UpdateReview, private)
	reviews.DELETE("/:id", d.Reviews.DeleteReview, private)

	api.GET("/dashboard/stats", d.Admin.Stats, adminOnly...)

	users := api.Group("/users")
	users.GET("", d.Admin.ListUsers, adminOnly...)
	users.GET("/email/:email", d.Admin.GetUserByEmail, adminOnly...)
	users.GET("/:id", d.Admin.GetUser, adminOnly...)
	users.PATCH("/:id", d.Admin.UpdateUser, adminOnly...)
	users.DELETE("/:id", d.Admin.DeleteUser, adminOnly...)

	api.GET("/exchange-rate", d.ExchangeRate.Get)
	api.PATCH("/exchange-rate", d.ExchangeRate.Update, adminOnly...)
	api.PATCH("/exchange-rate/update", d.ExchangeRate.Update, adminOnly...)
}
