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
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Tech          TechConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"GEMELAS_APP_ENV" required:"true"`
	Port         string   `envconfig:"GEMELAS_APP_PORT" default:"3000"`
	LogLevel     string   `envconfig:"GEMELAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"GEMELAS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"GEMELAS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GEMELAS_DB_DSN"`
	Driver string `envconfig:"GEMELAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GEMELAS_DB_HOST"`
	LegacyPort     int    `envconfig:"GEMELAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GEMELAS_DB_USER"`
	LegacyPassword string `envconfig:"GEMELAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"GEMELAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"GEMELAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GEMELAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEMELAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEMELAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEMELAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a Postgres DSN from the discrete legacy variables when a
// full DSN was not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database config requires GEMELAS_DB_DSN or GEMELAS_DB_HOST/USER/NAME")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GEMELAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GEMELAS_REDIS_ADDR"`
	Password     string        `envconfig:"GEMELAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEMELAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEMELAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEMELAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEMELAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEMELAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEMELAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GEMELAS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GEMELAS_JWT_ISSUER" default:"lasgemelas"`
	ExpirationMinutes      int    `envconfig:"GEMELAS_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"GEMELAS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GEMELAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GEMELAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GEMELAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GEMELAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GEMELAS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GEMELAS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit     int           `envconfig:"GEMELAS_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GEMELAS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GEMELAS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit  int           `envconfig:"GEMELAS_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GEMELAS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// TechConfig carries the technician allow-list. The codes are loaded from the
// environment so they can be rotated without a deploy, replacing the old
// hard-coded in-memory table.
type TechConfig struct {
	Codes []string `envconfig:"GEMELAS_TECH_CODES"`
}

// AllowedCodes returns the trimmed, non-empty technician codes.
func (t TechConfig) AllowedCodes() []string {
	out := make([]string, 0, len(t.Codes))
	for _, code := range t.Codes {
		code = strings.TrimSpace(code)
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GEMELAS_AUTO_MIGRATE" default:"false"`
}
