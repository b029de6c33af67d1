package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/gateway"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	tenantscope "github.com/storefront/backend/internal/infrastructure/persistence/tenant"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Defense in depth: every query on tenant-owned tables gets the tenant
	// predicate injected from the request context, or fails closed.
	tenantscope.EnableAutoTenantFilter(db.DB)

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	checkoutStore := persistence.NewGormCheckoutStore(db.DB)

	// Tenant resolution from the Host header
	resolver := tenant.NewResolver(tenantRepo,
		tenant.WithAdminSubdomain(cfg.Tenant.AdminSubdomain),
		tenant.WithPlatformHosts(cfg.Tenant.PlatformHosts...),
	)

	// Payment gateway; absence of credentials disables intent creation but
	// the rest of the API stays up.
	var paymentGateway *gateway.RazorpayAdapter
	if cfg.Gateway.Configured() {
		paymentGateway, err = gateway.NewRazorpayAdapter(&gateway.RazorpayConfig{
			KeyID:     cfg.Gateway.KeyID,
			KeySecret: cfg.Gateway.KeySecret,
			BaseURL:   cfg.Gateway.BaseURL,
			Timeout:   cfg.Gateway.Timeout,
		})
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		log.Info("Payment gateway configured")
	} else {
		log.Warn("Payment gateway credentials missing, intent creation disabled")
	}

	// Webhook dedupe store (Redis when enabled, in-memory otherwise)
	dedupeStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := dedupeStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	intentService := checkoutapp.NewIntentService(gatewayOrNil(paymentGateway), paymentRepo, cfg.Gateway.KeyID, log)
	commitService := checkoutapp.NewCommitService(checkoutapp.CommitServiceConfig{
		KeySecret:     cfg.Gateway.KeySecret,
		CommitTimeout: cfg.Checkout.CommitTimeout,
		Carts:         cartRepo,
		Products:      productRepo,
		Store:         checkoutStore,
		Logger:        log,
	})
	webhookService := checkoutapp.NewWebhookService(checkoutapp.WebhookServiceConfig{
		WebhookSecret: cfg.Gateway.WebhookSecret,
		Payments:      paymentRepo,
		Dedupe:        dedupeStore,
		Logger:        log,
	})
	sweepService := checkoutapp.NewSweepService(paymentRepo, cfg.Checkout.SweepAge, log)

	// HTTP engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
		Resolver: resolver,
		// Health probes carry no tenant; webhook authenticity comes from
		// its own body signature, not from the Host header.
		SkipPaths: []string{"/health", "/api/v1/webhooks"},
		Logger:    log,
	}))

	// Routes
	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Health)

	r := router.NewRouter(engine)
	r.Register(handler.NewPaymentHandler(intentService, commitService)).
		Register(handler.NewWebhookHandler(webhookService))
	r.Setup()

	// Periodic reconciliation sweep for paid-without-order payments
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runSweepLoop(sweepCtx, sweepService, cfg.Checkout.SweepAge, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// gatewayOrNil keeps a typed-nil adapter from masquerading as a non-nil
// interface value.
func gatewayOrNil(adapter *gateway.RazorpayAdapter) checkout.PaymentGateway {
	if adapter == nil {
		return nil
	}
	return adapter
}

func runSweepLoop(ctx context.Context, sweep *checkoutapp.SweepService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			findings, err := sweep.SweepUnlinkedPayments(ctx)
			if err != nil {
				log.Error("Reconciliation sweep failed", zap.Error(err))
				continue
			}
			if len(findings) > 0 {
				log.Warn("Reconciliation sweep found unlinked payments",
					zap.Int("count", len(findings)))
			}
		}
	}
}
