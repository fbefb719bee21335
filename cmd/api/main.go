package main

import (
	"context"
	"ecommerce-backend/config"
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/database"
	"ecommerce-backend/internal/delivery/http/middleware"
	v1 "ecommerce-backend/internal/delivery/http/v1"
	"ecommerce-backend/internal/infrastructure/cache"
	"ecommerce-backend/internal/infrastructure/firebase"
	"ecommerce-backend/internal/infrastructure/payment"
	pgrepo "ecommerce-backend/internal/repository/postgres"
	"ecommerce-backend/internal/telemetry"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/storage"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const serviceName = "ecommerce-backend"

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel, serviceName)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry is optional; without it the otel globals stay no-ops.
	if cfg.OTelEnabled {
		tel, err := telemetry.Initialize(ctx, telemetry.Config{
			ServiceName:    serviceName,
			ServiceVersion: cfg.ServiceVersion,
			Environment:    cfg.Env,
			OTLPEndpoint:   cfg.OTelEndpoint,
			SampleRate:     cfg.OTelSampleRate,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize telemetry")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Telemetry shutdown failed")
			}
		}()
	}
	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// Database
	if err := database.RunMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	pgxPool, err := pgrepo.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Repositories
	productRepo := pgrepo.NewProductRepository(pgxPool)
	cartRepo := pgrepo.NewCartRepository(pgxPool)
	couponRepo := pgrepo.NewCouponRepository(pgxPool)
	orderRepo := pgrepo.NewOrderRepository(pgxPool)
	userRepo := pgrepo.NewUserRepository(pgxPool)
	statsRepo := pgrepo.NewStatsRepository(pgxPool)
	txManager := pgrepo.NewTransactionManager(pgxPool)

	// Default expiration 1m, cleanup every 5m
	memCache := cache.NewMemoryCache(time.Minute, 5*time.Minute)

	// Auth
	var authenticator auth.Authenticator
	switch cfg.AuthProvider {
	case "firebase":
		authenticator, err = firebase.NewTokenVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	default:
		authenticator, err = auth.NewJWTAuthenticator(cfg.JWTSecret)
	}
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AuthProvider).Msg("Failed to initialize authenticator")
	}
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load authorization policy")
	}
	authMW := middleware.NewAuth(authenticator, auth.NewPrincipalResolver(userRepo), authorizer)

	// Payments
	gateway, err := payment.NewStripeGateway(cfg.StripeSecretKey, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize payment gateway")
	}

	// Storage (R2)
	var images usecase.ImageStore
	if cfg.R2Enabled() {
		r2Storage, err := storage.NewR2Storage(ctx, storage.R2Options{
			AccountID:     cfg.R2AccountID,
			AccessKey:     cfg.R2AccessKeyID,
			SecretKey:     cfg.R2AccessKeySecret,
			BucketName:    cfg.R2BucketName,
			PublicURL:     cfg.R2PublicURL,
			UploadTimeout: cfg.R2UploadTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		images = r2Storage
	} else {
		log.Warn().Msg("R2 storage not configured, image uploads disabled")
	}

	// Pricing
	shipping, err := shippingPolicy(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid shipping configuration")
	}
	pricing := usecase.NewPricingEngine(productRepo, couponRepo, shipping, cfg.PaymentMinAmount)

	// Usecases
	catalogUC := usecase.NewCatalogUsecase(productRepo, images, memCache)
	cartUC := usecase.NewCartUsecase(cartRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo, pricing)
	paymentUC := usecase.NewPaymentUsecase(pricing, gateway, cfg.PaymentCurrency, metrics)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartRepo, couponRepo, pricing, txManager, metrics)
	userUC := usecase.NewUserUsecase(userRepo)
	statsUC := usecase.NewStatsUsecase(statsRepo, memCache, cfg.StatsCacheTTL)

	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Products: v1.NewProductHandler(catalogUC),
		Uploads:  v1.NewUploadHandler(catalogUC, cfg.MaxUploadSizeMB),
		Carts:    v1.NewCartHandler(cartUC),
		Coupons:  v1.NewCouponHandler(couponUC),
		Admin:    v1.NewAdminCouponHandler(couponUC),
		Payments: v1.NewPaymentHandler(paymentUC),
		Orders:   v1.NewOrderHandler(orderUC),
		Users:    v1.NewUserHandler(userUC),
		Stats:    v1.NewStatsHandler(statsUC),
		Health: v1.NewHealthHandler(func(ctx context.Context) error {
			return database.CheckHealth(ctx, pgxPool)
		}),
	}, authMW)

	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		PerSecond:     rate.Limit(cfg.RateLimitPerSec),
		Burst:         cfg.RateLimitBurst,
		CleanupPeriod: time.Minute,
		IdleTTL:       3 * time.Minute,
		ExemptPaths:   []string{"/health"},
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(mux, cfg.AllowedOrigin, rateLimiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(cfg.ServiceVersion, cfg.Port)

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop()
}

// newHandler wraps the routes. CORS sits outside the limiter so throttled
// responses stay readable from the browser, and the access log sees 429s.
func newHandler(routes http.Handler, allowedOrigin string, limiter *middleware.RateLimiter) http.Handler {
	handler := limiter.Middleware()(routes)
	handler = middleware.RequestLogger(handler)
	handler = middleware.NewCORSMiddleware(allowedOrigin)(handler)
	return gziphandler.GzipHandler(handler)
}

func shippingPolicy(cfg *config.Config) (usecase.ShippingPolicy, error) {
	local, err := decimal.NewFromString(cfg.ShippingLocalFee)
	if err != nil {
		return usecase.ShippingPolicy{}, fmt.Errorf("SHIPPING_LOCAL_FEE: %w", err)
	}
	outside, err := decimal.NewFromString(cfg.ShippingOutsideFee)
	if err != nil {
		return usecase.ShippingPolicy{}, fmt.Errorf("SHIPPING_OUTSIDE_FEE: %w", err)
	}
	return usecase.ShippingPolicy{
		LocalDistrict: cfg.ShippingLocalDistrict,
		LocalFee:      local,
		OutsideFee:    outside,
	}, nil
}
