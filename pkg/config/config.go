package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LEANCHEM_DB_DSN"
	EnvDBHost = "LEANCHEM_DB_HOST"
	EnvDBUser = "LEANCHEM_DB_USER"
	EnvDBName = "LEANCHEM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Gemini       GeminiConfig
	WebSearch    WebSearchConfig
	Worker       WorkerConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEANCHEM_APP_ENV" required:"true"`
	Port         string `envconfig:"LEANCHEM_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"LEANCHEM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEANCHEM_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"LEANCHEM_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Origins splits the comma-separated CORS origin list.
func (a AppConfig) Origins() []string {
	if strings.TrimSpace(a.CORSOrigins) == "" {
		return nil
	}
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"LEANCHEM_DB_DSN"`
	Driver string `envconfig:"LEANCHEM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEANCHEM_DB_HOST"`
	LegacyPort     int    `envconfig:"LEANCHEM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEANCHEM_DB_USER"`
	LegacyPassword string `envconfig:"LEANCHEM_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEANCHEM_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEANCHEM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEANCHEM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEANCHEM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEANCHEM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEANCHEM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEANCHEM_REDIS_URL"`
	Address      string        `envconfig:"LEANCHEM_REDIS_ADDR"`
	Password     string        `envconfig:"LEANCHEM_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEANCHEM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEANCHEM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEANCHEM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEANCHEM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEANCHEM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEANCHEM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies tokens minted by the external identity provider.
type JWTConfig struct {
	Secret   string `envconfig:"LEANCHEM_JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"LEANCHEM_JWT_ISSUER"`
	Audience string `envconfig:"LEANCHEM_JWT_AUDIENCE"`
}

type GeminiConfig struct {
	APIKey         string        `envconfig:"LEANCHEM_GEMINI_API_KEY"`
	ChatModel      string        `envconfig:"LEANCHEM_GEMINI_CHAT_MODEL" default:"gemini-2.5-flash"`
	EmbedModel     string        `envconfig:"LEANCHEM_GEMINI_EMBED_MODEL" default:"text-embedding-004"`
	RequestTimeout time.Duration `envconfig:"LEANCHEM_GEMINI_TIMEOUT" default:"60s"`
}

type WebSearchConfig struct {
	GooglePSEAPIKey string        `envconfig:"LEANCHEM_GOOGLE_PSE_API_KEY"`
	GooglePSECX     string        `envconfig:"LEANCHEM_GOOGLE_PSE_CX"`
	SerpAPIKey      string        `envconfig:"LEANCHEM_SERPAPI_API_KEY"`
	RequestTimeout  time.Duration `envconfig:"LEANCHEM_WEB_SEARCH_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"LEANCHEM_WORKER_POLL_INTERVAL" default:"15s"`
	LockTTL      time.Duration `envconfig:"LEANCHEM_WORKER_LOCK_TTL" default:"5m"`
	MaxAttempts  int           `envconfig:"LEANCHEM_WORKER_MAX_ATTEMPTS" default:"3"`
	MetricsPort  string        `envconfig:"LEANCHEM_WORKER_METRICS_PORT" default:"9100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool          `envconfig:"LEANCHEM_AUTO_MIGRATE" default:"false"`
	StockCacheTTL time.Duration `envconfig:"LEANCHEM_STOCK_CACHE_TTL" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
