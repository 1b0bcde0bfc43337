package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/repository/postgres"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"
	"storefront-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const serviceName = "storefront-api"

var version = "dev"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	bundle, err := i18n.Default(cfg.DefaultLocale)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid message catalogs")
	}

	ctx := context.Background()

	pgxPool, err := postgres.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL")

	if err := postgres.InitSchema(ctx, pgxPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}
	seeded, err := postgres.SeedStaticCatalog(ctx, pgxPool, cfg.BaseCurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed static catalog")
	}
	log.Info().Int64("inserted", seeded).Msg("Static catalog ready")

	// Repositories
	productRepo := postgres.NewProductRepository(pgxPool)
	featuredRepo := postgres.NewFeaturedRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	receiptRepo := postgres.NewReceiptRepository(pgxPool)
	statsRepo := postgres.NewStatsRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)
	converter := pricing.DefaultConverter()

	r2Storage, err := storage.NewR2Storage(ctx, storage.R2Options{
		AccountID:     cfg.R2AccountID,
		AccessKey:     cfg.R2AccessKeyID,
		SecretKey:     cfg.R2AccessKeySecret,
		BucketName:    cfg.R2BucketName,
		PublicURL:     cfg.R2PublicURL,
		Endpoint:      cfg.R2Endpoint,
		UploadTimeout: cfg.R2UploadTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
	}

	// Usecases
	catalogUC := usecase.NewCatalogUsecase(productRepo, memCache, converter, txManager, cfg)
	featuredUC := usecase.NewFeaturedUsecase(featuredRepo, productRepo, memCache, cfg)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, txManager, cfg)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, receiptRepo, txManager)
	statsUC := usecase.NewStatsUsecase(statsRepo, memCache, cfg)
	sitemapUC := usecase.NewSitemapUsecase(productRepo, memCache, cfg)

	// Handlers
	catalogHandler := v1.NewCatalogHandler(catalogUC, featuredUC, converter, cfg.BaseCurrency, bundle)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC, featuredUC, bundle)
	orderHandler := v1.NewOrderHandler(orderUC, bundle)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC, paymentUC, bundle)
	paymentHandler := v1.NewPaymentHandler(paymentUC, r2Storage, cfg.MaxUploadSizeMB, bundle)
	uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB, bundle)
	configHandler := v1.NewConfigHandler(memCache, converter, cfg.BaseCurrency)
	statsHandler := v1.NewAdminStatsHandler(statsUC, bundle)
	sitemapHandler := v1.NewSitemapHandler(sitemapUC)

	mux := http.NewServeMux()

	authMiddleware := middleware.NewAuthMiddleware(bundle)
	adminOnly := middleware.NewAdminMiddleware(bundle)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(adminOnly(h))
	}

	// Public
	mux.HandleFunc("GET /api/v1/config/enums", configHandler.GetEnums)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/featured-products", catalogHandler.ListFeatured)
	mux.Handle("GET /sitemap.xml", sitemapHandler)

	// Customer
	mux.Handle("POST /api/v1/orders/create", authed(orderHandler.CreateOrder))
	mux.Handle("GET /api/v1/orders/{id}", authed(orderHandler.GetOrder))
	mux.Handle("GET /api/v1/user/orders", authed(orderHandler.GetMyOrders))
	mux.Handle("POST /api/v1/payment/submit-receipt", authed(paymentHandler.SubmitReceipt))

	mux.Handle("POST /api/v1/upload", authed(uploadHandler.UploadFile))

	// Admin catalog
	mux.Handle("POST /api/v1/products", adminMiddleware(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/products", adminMiddleware(adminCatalogHandler.UpdateProduct))
	mux.Handle("PUT /api/v1/products/{id}", adminMiddleware(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/products", adminMiddleware(adminCatalogHandler.DeleteProduct))
	mux.Handle("DELETE /api/v1/products/{id}", adminMiddleware(adminCatalogHandler.DeleteProduct))
	mux.Handle("POST /api/v1/apply-discount", adminMiddleware(adminCatalogHandler.ApplyDiscount))
	mux.Handle("POST /api/v1/remove-discount", adminMiddleware(adminCatalogHandler.RemoveDiscount))
	mux.Handle("POST /api/v1/reset-discounts", adminMiddleware(adminCatalogHandler.ResetDiscounts))
	mux.Handle("POST /api/v1/featured-products", adminMiddleware(adminCatalogHandler.AddFeatured))
	mux.Handle("DELETE /api/v1/featured-products", adminMiddleware(adminCatalogHandler.RemoveFeatured))

	// Admin orders
	mux.Handle("GET /api/v1/admin/orders", adminMiddleware(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminMiddleware(adminOrderHandler.GetOrder))
	mux.Handle("GET /api/v1/admin/orders/{id}/history", adminMiddleware(adminOrderHandler.GetOrderHistory))
	mux.Handle("GET /api/v1/admin/orders/{id}/receipts", adminMiddleware(adminOrderHandler.ListReceipts))
	mux.Handle("POST /api/v1/admin/update-order-status", adminMiddleware(adminOrderHandler.UpdateOrderStatus))
	mux.Handle("POST /api/v1/admin/verify-payment", adminMiddleware(paymentHandler.VerifyPayment))
	mux.Handle("POST /api/v1/admin/reject-payment", adminMiddleware(paymentHandler.RejectPayment))

	// Admin analytics
	mux.Handle("GET /api/v1/admin/stats/revenue", adminMiddleware(statsHandler.GetDailySales))
	mux.Handle("GET /api/v1/admin/stats/kpis", adminMiddleware(statsHandler.GetKPIs))
	mux.Handle("GET /api/v1/admin/stats/payments", adminMiddleware(statsHandler.GetPaymentSummary))
	mux.Handle("GET /api/v1/admin/stats/products/top-selling", adminMiddleware(statsHandler.GetTopSellingProducts))

	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		status, db := http.StatusOK, "connected"
		if err := pgxPool.Ping(r.Context()); err != nil {
			status, db = http.StatusServiceUnavailable, "unreachable"
		}
		utils.WriteJSON(w, status, map[string]string{"status": http.StatusText(status), "db": db})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)

	rateLimiter := middleware.NewRateLimiter(
		ctx,
		bundle,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(serviceName, version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.ServiceStop(serviceName)
}
