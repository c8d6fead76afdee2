package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every configuration value of the ledger binaries. Only this
// struct must be used to read configuration; no direct access to the
// environment should be made elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=bizledger"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT"`
	HttpCorsOrigin     string        `env:"HTTP_CORS_ORIGIN"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	MigrationsDir string `env:"MIGRATIONS_DIR"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	LogLevel string `env:"LOG_LEVEL"`

	JwtSecret string        `env:"JWT_SECRET"`
	JwtTTL    time.Duration `env:"JWT_TTL"`

	AuthLoginMaxAttempts int           `env:"AUTH_LOGIN_MAX_ATTEMPTS"`
	AuthLoginWindow      time.Duration `env:"AUTH_LOGIN_WINDOW"`

	ReportTimezone string `env:"REPORT_TIMEZONE"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrap(err, "failed to load configuration file "+path)
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	c.applyDefaults()
	if err = c.validate(); err != nil {
		return err
	}

	config = c
	return nil
}

func (c *Config) applyDefaults() {
	if c.HttpListenAddr == "" {
		c.HttpListenAddr = ":5000"
	}
	if c.HttpRequestTimeout <= 0 {
		c.HttpRequestTimeout = 5 * time.Second
	}
	if c.HttpCorsOrigin == "" {
		c.HttpCorsOrigin = "*"
	}
	if c.AppDebugMetricsURI == "" {
		c.AppDebugMetricsURI = "/metrics"
	}
	if c.MigrationsDir == "" {
		c.MigrationsDir = "./migrations"
	}
	if c.PromNamespace == "" {
		c.PromNamespace = "bizledger"
	}
	if c.JwtTTL <= 0 {
		c.JwtTTL = 30 * 24 * time.Hour
	}
	if c.AuthLoginMaxAttempts <= 0 {
		c.AuthLoginMaxAttempts = 5
	}
	if c.AuthLoginWindow <= 0 {
		c.AuthLoginWindow = 15 * time.Minute
	}
	if c.ReportTimezone == "" {
		c.ReportTimezone = "UTC"
	}
}

func (c *Config) validate() error {
	if c.AppEnv != "dev" && c.AppEnv != "test" && c.JwtSecret == "" {
		return errors.New("JWT_SECRET must be set outside dev/test")
	}
	if c.JwtSecret == "" {
		logger.Warn("JWT_SECRET is empty, using an insecure development secret")
		c.JwtSecret = "bizledger-dev-secret"
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return errors.Wrap(err, "invalid REPORT_TIMEZONE")
	}
	return nil
}

// ReportLocation returns the timezone used to bucket analytics by calendar day.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
