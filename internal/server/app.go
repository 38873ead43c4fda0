// Package server wires the services, their stores and the HTTP router.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"myday-qr/internal/admin"
	adminapi "myday-qr/internal/admin/api"
	admindb "myday-qr/internal/admin/db"
	"myday-qr/internal/admindata"
	admindataapi "myday-qr/internal/admindata/api"
	"myday-qr/internal/analytics"
	analyticsapi "myday-qr/internal/analytics/api"
	"myday-qr/internal/auth"
	authapi "myday-qr/internal/auth/api"
	authdb "myday-qr/internal/auth/db"
	"myday-qr/internal/catalog"
	catalogapi "myday-qr/internal/catalog/api"
	catalogdb "myday-qr/internal/catalog/db"
	"myday-qr/internal/config"
	"myday-qr/internal/content"
	contentapi "myday-qr/internal/content/api"
	contentdb "myday-qr/internal/content/db"
	"myday-qr/internal/coupon"
	couponapi "myday-qr/internal/coupon/api"
	coupondb "myday-qr/internal/coupon/db"
	"myday-qr/internal/kafka"
	"myday-qr/internal/logger"
	"myday-qr/internal/order"
	orderapi "myday-qr/internal/order/api"
	orderdb "myday-qr/internal/order/db"
	orderkafka "myday-qr/internal/order/kafka"
	orderredis "myday-qr/internal/order/redis"
	"myday-qr/internal/qrcode"
	qrapi "myday-qr/internal/qrcode/api"
	qrdb "myday-qr/internal/qrcode/db"
)

type Options struct {
	Config *config.Config
	DB     *bun.DB
	// Redis is optional; without it there is no principal cache, QR cache or
	// checkout lock.
	Redis *redis.Client
	// Publisher is optional; without it order events are dropped.
	Publisher kafka.Publisher
	// Resolver overrides the built-in JWT resolver, e.g. with OIDC.
	Resolver auth.TokenResolver
	Registry *prometheus.Registry
	Logger   *logger.Logger
}

type App struct {
	Router     http.Handler
	OrderStore *orderdb.DB
	Accounts   *auth.Accounts
	Admins     *admin.Service
}

type handlers struct {
	auth      *authapi.Handler
	qrcodes   *qrapi.Handler
	admins    *adminapi.Handler
	orders    *orderapi.Handler
	catalog   *catalogapi.Handler
	coupons   *couponapi.Handler
	content   *contentapi.Handler
	analytics *analyticsapi.Handler
	adminData *admindataapi.Handler
}

func New(opts Options) (*App, error) {
	cfg, log := opts.Config, opts.Logger

	transitions, err := order.ParseTransitions(cfg.Shop.StatusTransitions)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_STATUS_TRANSITIONS: %w", err)
	}

	users := &authdb.DB{Bun: opts.DB}
	issuer := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	accounts := auth.NewAccounts(users, issuer, log)

	resolver := opts.Resolver
	if resolver == nil {
		resolver = &auth.JWTResolver{Issuer: issuer, Users: users}
	}
	if opts.Redis != nil {
		resolver = auth.NewCachingResolver(resolver, opts.Redis, cfg.Redis.PrincipalTTL, log)
	}

	adminStore := &admindb.DB{Bun: opts.DB}
	adminService := admin.NewService(adminStore, accounts, cfg.Auth.AdminSetupEnabled, log)
	gate := admin.NewGate(resolver, adminStore, log)

	var qrCache qrcode.Cache
	if opts.Redis != nil {
		qrCache = qrcode.NewRedisCache(opts.Redis, cfg.Redis.QRCacheTTL, log)
	}
	qrService := qrcode.NewService(&qrdb.DB{Bun: opts.DB}, qrCache, qrcode.NewRenderer(cfg.Shop.PublicBaseURL), log)

	catalogService := catalog.NewService(&catalogdb.DB{Bun: opts.DB}, log)
	couponService := coupon.NewService(&coupondb.DB{Bun: opts.DB}, log)
	contentService := content.NewService(&contentdb.DB{Bun: opts.DB}, log)
	analyticsService := analytics.NewService(analytics.NewDB(opts.DB), log)

	orderStore := &orderdb.DB{Bun: opts.DB}
	orderOpts := order.Options{
		Catalog:      catalogService,
		Events:       orderkafka.NewProducer(opts.Publisher, kafka.NewTopics(cfg.Kafka.TopicPrefix), log),
		Transitions:  transitions,
		ContactEmail: cfg.Shop.ContactEmail,
	}
	if opts.Redis != nil {
		orderOpts.Lock = orderredis.NewCheckoutLock(opts.Redis, cfg.Redis.CheckoutLockTTL, log)
	}
	orderService := order.NewService(orderStore, orderOpts, log)

	proxy := admindata.Build(admindata.Deps{
		DB:                  opts.DB,
		Catalog:             catalogService,
		Coupons:             couponService,
		Orders:              orderService,
		Content:             contentService,
		Admins:              adminService,
		QRCodes:             qrService,
		MissingOrderColumns: orderStore.MissingColumns,
	}, log)

	h := handlers{
		auth:      authapi.NewHandler(accounts, log),
		qrcodes:   qrapi.NewHandler(qrService, cfg.Shop.PublicBaseURL, log),
		admins:    adminapi.NewHandler(gate, adminService, log),
		orders:    orderapi.NewHandler(orderService, log),
		catalog:   catalogapi.NewHandler(catalogService, log),
		coupons:   couponapi.NewHandler(couponService, log),
		content:   contentapi.NewHandler(contentService, log),
		analytics: analyticsapi.NewHandler(analyticsService, log),
		adminData: admindataapi.NewHandler(proxy, log),
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &App{
		Router:     newRouter(h, resolver, gate, opts.DB, registry, log),
		OrderStore: orderStore,
		Accounts:   accounts,
		Admins:     adminService,
	}, nil
}
