// Package config reads service settings from the environment after loading optional .env files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Postgres struct {
	Host         string `env:"PG_HOST"           envDefault:"localhost"`
	Port         int    `env:"PG_PORT"           envDefault:"5432"`
	User         string `env:"PG_USER"           envDefault:"postgres"`
	Password     string `env:"PG_PASSWORD"`
	DB           string `env:"PG_DB"             envDefault:"milpower"`
	SSLMode      string `env:"PG_SSLMODE"        envDefault:"disable"`
	MaxOpenConns int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
}

// DSN renders a postgres:// URL; the password is escaped.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     p.Host + ":" + strconv.Itoa(p.Port),
		Path:     "/" + p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	return u.String()
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type TLS struct {
	Enable   bool   `env:"TLS_ENABLE"    envDefault:"false"`
	CertPath string `env:"TLS_CERT_PATH" envDefault:"data/certs/server.crt"`
	KeyPath  string `env:"TLS_KEY_PATH"  envDefault:"data/certs/server.key"`
}

type Config struct {
	Addr            string        `env:"ADDR"               envDefault:":8080"`
	APIBase         string        `env:"API_BASE"           envDefault:"/api"`
	LogLevel        string        `env:"LOG_LEVEL"          envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"         envDefault:"text"`
	DataSource      string        `env:"DATA_SOURCE"        envDefault:"static"`
	GeoIPDB         string        `env:"GEOIP_DB"`
	RateLimit       bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitQPS    int           `env:"RATE_LIMIT_QPS"     envDefault:"200"`
	AllowCIDRs      []string      `env:"ALLOW_CIDRS"        envSeparator:","`
	AllowLocal      bool          `env:"ALLOW_LOCAL"        envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"   envDefault:"10s"`

	Postgres Postgres
	Redis    Redis
	TLS      TLS
}

// LoadDotenv loads the given .env files, skipping any that do not exist.
// Variables already set in the process environment win.
func LoadDotenv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load parses the process environment into a Config and validates it.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses from an explicit environment map instead of os.Environ; nil means the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.DataSource = strings.ToLower(strings.TrimSpace(c.DataSource))
	switch c.DataSource {
	case SourceStatic, SourcePostgres:
	default:
		return fmt.Errorf("%w: DATA_SOURCE must be %q or %q, got %q", ErrInvalidConfig, SourceStatic, SourcePostgres, c.DataSource)
	}
	c.APIBase = "/" + strings.Trim(c.APIBase, "/")
	if c.APIBase == "/" {
		return fmt.Errorf("%w: API_BASE cannot be the site root", ErrInvalidConfig)
	}
	if c.RateLimitQPS <= 0 {
		c.RateLimitQPS = 200
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return nil
}
