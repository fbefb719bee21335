package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	ServiceVersion string
	AllowedOrigin  string
	// DB Config
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	MigrationsPath    string
	// Auth: "jwt" or "firebase"
	AuthProvider            string
	JWTSecret               string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	// Payments
	StripeSecretKey  string
	PaymentCurrency  string
	PaymentMinAmount int64 // minor units
	// Shipping
	ShippingLocalDistrict string
	ShippingLocalFee      string
	ShippingOutsideFee    string
	// Cache
	StatsCacheTTL time.Duration
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	// Upload Configuration
	MaxUploadSizeMB int64
	R2UploadTimeout time.Duration
	// Telemetry
	OTelEnabled    bool
	OTelEndpoint   string
	OTelSampleRate float64
	// HTTP server
	RateLimitPerSec float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	// CONFIG_FILE wins; otherwise a local .env is optional and system env vars are used.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, relying on system env vars")
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),

		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "migrations"),

		AuthProvider:            strings.ToLower(getEnv("AUTH_PROVIDER", "jwt")),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		PaymentCurrency:  strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		PaymentMinAmount: getInt64Env("PAYMENT_MIN_AMOUNT", 50),

		ShippingLocalDistrict: getEnv("SHIPPING_LOCAL_DISTRICT", "Dhaka"),
		ShippingLocalFee:      getEnv("SHIPPING_LOCAL_FEE", "80"),
		ShippingOutsideFee:    getEnv("SHIPPING_OUTSIDE_FEE", "150"),

		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", time.Minute),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		// Upload defaults: 10MB max, 30s timeout
		MaxUploadSizeMB: getInt64Env("MAX_UPLOAD_SIZE_MB", 10),
		R2UploadTimeout: getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		OTelEnabled:     getBoolEnv("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRate:  getFloatEnv("OTEL_SAMPLE_RATE", 1.0),
		RateLimitPerSec: getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  getIntEnv("RATE_LIMIT_BURST", 100),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate reports the first setting the server cannot start without.
func (c *Config) Validate() error {
	if c.DBUrl == "" {
		return errors.New("DB_DSN is required")
	}
	switch c.AuthProvider {
	case "jwt":
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	case "firebase":
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when AUTH_PROVIDER=firebase")
		}
	default:
		return errors.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	if c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required")
	}
	if c.PaymentMinAmount < 0 {
		return errors.New("PAYMENT_MIN_AMOUNT must not be negative")
	}
	return nil
}

// R2Enabled reports whether image uploads are configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2BucketName != ""
}
