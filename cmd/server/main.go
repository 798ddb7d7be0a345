package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/sweet_shop/internal/config"
	"github.com/Skotchmaster/sweet_shop/internal/db"
	"github.com/Skotchmaster/sweet_shop/internal/es"
	"github.com/Skotchmaster/sweet_shop/internal/httpserver"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/mail"
	"github.com/Skotchmaster/sweet_shop/internal/metrics"
	authmw "github.com/Skotchmaster/sweet_shop/internal/middleware/auth"
	"github.com/Skotchmaster/sweet_shop/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/sweet_shop/internal/middleware/logging"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/service/search"
	"github.com/Skotchmaster/sweet_shop/internal/tokens"
	"github.com/Skotchmaster/sweet_shop/internal/tokenstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "sweet_shop")
		boot.Fatal().Err(err).Msg("config_load_failed")
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config_invalid")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(logging.IntoContext(ctx, log), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server_failed")
	}
	log.Info().Msg("shutdown_complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("db_close_failed")
			}
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	r := repo.New(gdb)

	var store tokenstore.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		rs := tokenstore.NewRedisStore(rdb, cfg.ServiceName)
		if err := rs.Ping(ctx); err != nil {
			return err
		}
		store = rs
	} else {
		log.Warn().Msg("redis_not_configured_using_memory_token_store")
		store = tokenstore.NewMemoryStore()
	}

	var publisher mykafka.Publisher = mykafka.Nop{}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		prod := mykafka.NewProducer(brokers)
		defer func() {
			if err := prod.Close(); err != nil {
				log.Error().Err(err).Msg("kafka_close_failed")
			}
		}()
		publisher = prod
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	catalog := &service.CatalogService{Repo: r, Publisher: publisher}
	esClient, err := es.NewClient(cfg)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("elasticsearch_unavailable_search_falls_back_to_sql")
	case esClient != nil:
		catalog.Search = &search.ProductIndex{ES: esClient, Index: cfg.ESIndex}
	}

	rate, _ := cfg.ExchangeRateDefault()
	registry := prometheus.NewRegistry()
	shopMetrics := metrics.New(registry)
	issuer := &tokens.Issuer{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	authSvc := &service.AuthService{
		Repo:        r,
		Tokens:      issuer,
		Store:       store,
		Mailer:      mailer,
		Publisher:   publisher,
		FrontendURL: cfg.FrontendURL,
		ResetTTL:    cfg.PasswordResetTTL,
		VerifyTTL:   cfg.EmailVerificationTTL,
	}
	authn := authmw.NewAuthenticator(issuer.AccessSecret)
	authn.Refresh = func(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
		res, err := authSvc.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		return res.Tokens, nil
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.EnforceSameOrigin = false
	csrfCfg.Skipper = csrf.WithoutCookie(authmw.AccessCookie, authmw.RefreshCookie)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.RequestID(),
		loggingmw.RequestLogger(log),
		middleware.Recover(),
		shopMetrics.Middleware(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins(),
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
				echo.HeaderAuthorization, csrfCfg.HeaderName,
			},
			ExposeHeaders: []string{csrfCfg.HeaderName, echo.HeaderXRequestID},
		}),
		csrf.Middleware(csrfCfg),
	)

	httpserver.Register(e, &httpserver.Deps{
		Catalog: &httpserver.CatalogHTTP{Svc: catalog},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo: r, Publisher: publisher, Mailer: mailer, Metrics: shopMetrics,
		}},
		Auth:    &httpserver.AuthHTTP{Svc: authSvc},
		Account: &httpserver.AccountHTTP{
			Addresses:     &service.AddressService{Repo: r},
			Favorites:     &service.FavoriteService{Repo: r},
			Notifications: &service.NotificationService{Repo: r},
		},
		Reviews:    &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Zones:      &httpserver.ZoneHTTP{Svc: &service.ZoneService{Repo: r}},
		Promotions: &httpserver.PromotionHTTP{Svc: &service.PromotionService{Repo: r}},
		Admin: &httpserver.AdminHTTP{
			Users:     &service.UserService{Repo: r},
			Dashboard: &service.DashboardService{Repo: r},
		},
		ExchangeRate: &httpserver.ExchangeRateHTTP{Svc: &service.ExchangeRateService{
			Store:   &repo.ExchangeRateStore{Repo: r},
			Default: rate,
		}},
		Authenticator: authn,
		Ready:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Gatherer:      registry,
	})

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http_server_started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
