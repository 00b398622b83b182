package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/straye-as/offer-workflow/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Backend   BackendConfig
	DocuSign  DocuSignConfig
	Upload    UploadConfig
	Documents DocumentsConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Auth      AuthConfig
	Secrets   SecretsConfig
	Telemetry TelemetryConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// BackendConfig describes the listing platform REST API that owns documents and offers
type BackendConfig struct {
	BaseURL string
	// Timeout is the per-request timeout in seconds
	Timeout int
	// APIKey is sent as x-api-key when set (loaded from secrets or environment)
	APIKey string
	// AnalysisPages is the page selector sent with purchase agreement analysis requests
	AnalysisPages string
}

// DocuSignConfig holds the e-signature connection settings
type DocuSignConfig struct {
	// ProviderOrigins are the signing provider origins allowed to post callback messages
	ProviderOrigins []string
	// AppOrigin is the origin the wizard UI is served from
	AppOrigin string
	// CallbackMessageType is the message type posted by the OAuth callback page
	CallbackMessageType string
	PollAttempts        int
	// PollInterval is the delay between status polls in milliseconds
	PollInterval int
	// PopupTimeout is the maximum time the authorization popup may stay open, in seconds
	PopupTimeout int
	// ClosedRecheckDelay is the delay before re-checking status after the popup closed, in milliseconds
	ClosedRecheckDelay int
}

// UploadConfig holds per-context upload size limits.
// Each upload call site has its own limit.
type UploadConfig struct {
	AnalysisMaxMB        int64
	OfferDocumentMaxMB   int64
	ListingDocumentMaxMB int64
}

// DocumentsConfig holds document workflow policies
type DocumentsConfig struct {
	// DeletePolicy is "optimistic" (remove locally before the server confirms)
	// or "pessimistic" (remove locally only after the server confirms)
	DeletePolicy string
}

type StorageConfig struct {
	// Mode selects the draft storage backend: local, azure, s3, redis or database
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	S3Endpoint            string
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3UseSSL              bool
	// DraftTTL is how long a persisted draft survives without writes, in hours (redis only, 0 = forever)
	DraftTTL int
	// DraftRetention is how long abandoned drafts are kept in database mode, in days (0 = forever)
	DraftRetention int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// SessionConfig controls wizard session lifetime
type SessionConfig struct {
	// IdleTTL is how long an untouched wizard session is kept in memory, in minutes
	IdleTTL int
	// SweepCron is the cron expression for the idle session sweeper
	SweepCron string
}

// AuthConfig holds bearer token validation settings
type AuthConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

// TelemetryConfig controls OpenTelemetry tracing
type TelemetryConfig struct {
	Enabled bool
	// Protocol is "grpc" or "http/protobuf"
	Protocol    string
	ServiceName string
	SampleRatio float64
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the rate limit per client IP
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the rate limit per authenticated agent
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TimeoutDuration returns the backend request timeout as duration
func (b *BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

// PollIntervalDuration returns the status poll interval as duration
func (d *DocuSignConfig) PollIntervalDuration() time.Duration {
	return time.Duration(d.PollInterval) * time.Millisecond
}

// PopupTimeoutDuration returns the popup timeout as duration
func (d *DocuSignConfig) PopupTimeoutDuration() time.Duration {
	return time.Duration(d.PopupTimeout) * time.Second
}

// ClosedRecheckDelayDuration returns the closed-popup recheck delay as duration
func (d *DocuSignConfig) ClosedRecheckDelayDuration() time.Duration {
	return time.Duration(d.ClosedRecheckDelay) * time.Millisecond
}

// DraftTTLDuration returns the draft TTL as duration
func (s *StorageConfig) DraftTTLDuration() time.Duration {
	return time.Duration(s.DraftTTL) * time.Hour
}

// DraftRetentionDuration returns the database draft retention as duration
func (s *StorageConfig) DraftRetentionDuration() time.Duration {
	return time.Duration(s.DraftRetention) * 24 * time.Hour
}

// IdleTTLDuration returns the session idle TTL as duration
func (s *SessionConfig) IdleTTLDuration() time.Duration {
	return time.Duration(s.IdleTTL) * time.Minute
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Backend.APIKey == "" {
		cfg.Backend.APIKey = v.GetString("BACKEND_API_KEY")
	}
	if cfg.Auth.SigningKey == "" {
		cfg.Auth.SigningKey = v.GetString("AUTH_SIGNING_KEY")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is staging or production;
// otherwise secrets come from environment variables.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// secretSource is the subset of the secrets provider used while resolving configuration
type secretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envVar string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, provider secretSource) error {
	key, err := provider.GetSecretOrEnv(ctx, "auth-signing-key", "AUTH_SIGNING_KEY")
	if err != nil {
		return fmt.Errorf("failed to resolve auth signing key: %w", err)
	}
	if key != "" {
		cfg.Auth.SigningKey = key
	}

	if apiKey, err := provider.GetSecretOrEnv(ctx, "backend-api-key", "BACKEND_API_KEY"); err == nil && apiKey != "" {
		cfg.Backend.APIKey = apiKey
	}
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}
	if s3Secret, err := provider.GetSecretOrEnv(ctx, "storage-s3-secret-key", "STORAGE_S3SECRETKEY"); err == nil && s3Secret != "" {
		cfg.Storage.S3SecretKey = s3Secret
	}
	if redisPassword, err := provider.GetSecretOrEnv(ctx, "redis-password", "REDIS_PASSWORD"); err == nil && redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if dbPassword, err := provider.GetSecretOrEnv(ctx, "postgres-drafts-password", "DATABASE_PASSWORD"); err == nil && dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Offer Workflow API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Backend defaults
	v.SetDefault("backend.baseURL", "http://localhost:5000")
	v.SetDefault("backend.timeout", 60)
	v.SetDefault("backend.analysisPages", "1,3-7")

	// DocuSign defaults
	v.SetDefault("docuSign.providerOrigins", []string{
		"https://account.docusign.com",
		"https://account-d.docusign.com",
	})
	v.SetDefault("docuSign.appOrigin", "http://localhost:3000")
	v.SetDefault("docuSign.callbackMessageType", "DOCUSIGN_OAUTH_CALLBACK")
	v.SetDefault("docuSign.pollAttempts", 3)
	v.SetDefault("docuSign.pollInterval", 2000)    // 2 seconds between status polls
	v.SetDefault("docuSign.popupTimeout", 300)     // 5 minutes
	v.SetDefault("docuSign.closedRecheckDelay", 1000)

	// Upload limits per call site
	v.SetDefault("upload.analysisMaxMB", 50)
	v.SetDefault("upload.offerDocumentMaxMB", 50)
	v.SetDefault("upload.listingDocumentMaxMB", 10)

	v.SetDefault("documents.deletePolicy", "optimistic")

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage/drafts")
	v.SetDefault("storage.cloudContainer", "offer-drafts")
	v.SetDefault("storage.s3Bucket", "offer-drafts")
	v.SetDefault("storage.draftTTL", 0)
	v.SetDefault("storage.draftRetention", 30)

	// Database defaults (database storage mode only)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "offer_workflow")
	v.SetDefault("database.user", "offer_workflow")
	v.SetDefault("database.password", "offer_workflow")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)

	// Redis defaults (redis storage mode only)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Session defaults
	v.SetDefault("session.idleTTL", 120)
	v.SetDefault("session.sweepCron", "@every 10m")

	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.protocol", "grpc")
	v.SetDefault("telemetry.serviceName", "offer-workflow")
	v.SetDefault("telemetry.sampleRatio", 1.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 90)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 240)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/metrics"})
}
