package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/application/service"
	"github.com/sangkips/invex-billing/internal/config"
	"github.com/sangkips/invex-billing/internal/infrastructure/database"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	"github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/sangkips/invex-billing/internal/invoice/render"
	"github.com/sangkips/invex-billing/internal/presentation/http/handler"
	"github.com/sangkips/invex-billing/internal/presentation/http/middleware"
	"github.com/sangkips/invex-billing/internal/presentation/http/routes"
	"github.com/sangkips/invex-billing/pkg/logger"
	"github.com/sangkips/invex-billing/pkg/printer"
	"github.com/sangkips/invex-billing/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		zlog.Fatal("connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(ctx, db, cfg.Admin); err != nil {
		zlog.Warn("seed default data", zap.Error(err))
	}

	// Change notifications
	hub, err := newHub(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("start notification hub", zap.String("driver", cfg.Notify.Driver), zap.Error(err))
	}
	defer hub.Close()

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	billItemRepo := repository.NewBillItemRepository(db)
	profileRepo := repository.NewCompanyProfileRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		zlog.Warn("initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, zlog)
	userService := service.NewUserService(userRepo, roleRepo, zlog)
	productService := service.NewProductService(productRepo, hub, cfg.Billing.CatalogCacheTTL, zlog)
	defer productService.Close()
	profileService := service.NewCompanyProfileService(profileRepo, hub, zlog)
	billService := service.NewBillService(billRepo, profileRepo, render.NewDefaultRegistry(cfg.Printer.Width))
	printerService := service.NewPrinterService(thermalPrinter, billService, cfg.Printer.Width, zlog)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo, hub, cfg.Billing.DashboardCacheTTL, zlog)
	defer dashboardService.Close()

	draftCfg := service.DraftServiceConfig{MaxNumberAttempts: cfg.Billing.InvoiceNumberAttempts}
	if cfg.Printer.AutoPrint {
		draftCfg.Printer = printerService
	}
	draftService := service.NewDraftService(billRepo, billItemRepo, productService, hub, zlog, draftCfg)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond(),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	eventsHandler := handler.NewEventsHandler(hub, zlog)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:         handler.NewHealthHandler(db, cfg.App.Name),
		Auth:           handler.NewAuthHandler(authService),
		User:           handler.NewUserHandler(userService),
		Product:        handler.NewProductHandler(productService),
		Draft:          handler.NewDraftHandler(draftService),
		Bill:           handler.NewBillHandler(billService),
		CompanyProfile: handler.NewCompanyProfileHandler(profileService),
		Dashboard:      handler.NewDashboardHandler(dashboardService),
		Printer:        handler.NewPrinterHandler(printerService),
		Events:         eventsHandler,
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             zlog,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo.DeleteExpired, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// open event streams would hold Shutdown until its deadline
	srv.RegisterOnShutdown(eventsHandler.Shutdown)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown", zap.Error(err))
	}
	draftService.Wait()
}

// newHub picks the in-process hub or Redis pub/sub for multi-instance setups
func newHub(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (notify.Hub, error) {
	if cfg.Notify.Driver != "redis" {
		return notify.NewMemoryHub(), nil
	}
	client, err := notify.NewRedisClient(ctx, cfg.Notify.RedisAddr, cfg.Notify.RedisPassword, cfg.Notify.RedisDB)
	if err != nil {
		return nil, err
	}
	return notify.NewRedisHub(client, cfg.App.Name+":", zlog.Named("notify")), nil
}

// purgeIdempotencyKeys drops expired keys every hour until ctx ends
func purgeIdempotencyKeys(ctx context.Context, deleteExpired func(context.Context) error, zlog *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := deleteExpired(ctx); err != nil {
				zlog.Warn("purge idempotency keys", zap.Error(err))
			}
		}
	}
}
