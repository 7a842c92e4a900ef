package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of all runtime configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Sync     SyncConfig
}

// AppConfig identifies the running service
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds postgres connection and pool settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds server and CORS settings
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// SyncConfig controls the legacy table mirror
type SyncConfig struct {
	// Enabled subscribes the legacy mirror to party events. Turn off once
	// the old tables have no remaining readers.
	Enabled           bool
	BackfillBatchSize int
}

// Load reads configuration in ascending priority: built-in defaults, then
// config.toml, then AGRIBASE_ environment variables (AGRIBASE_DATABASE_PASSWORD
// overrides database.password and so on).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults plus env vars
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("AGRIBASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv never registers keys on its own, and GetBool only
	// consults registered keys, so booleans need an explicit binding
	_ = v.BindEnv("sync.enabled", "AGRIBASE_SYNC_ENABLED")

	// The mirror dual-writes for the whole migration period. It is opted
	// out of post-cutover, never opted into.
	v.SetDefault("sync.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			BackfillBatchSize: v.GetInt("sync.backfill_batch_size"),
		},
	}

	cfg.fillDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values with defaults, section by section.
// A zero value from the environment (e.g. AGRIBASE_DATABASE_MAX_OPEN_CONNS=0)
// is treated the same as unset.
func (c *Config) fillDefaults() {
	c.App.fillDefaults()
	c.Database.fillDefaults()
	c.JWT.fillDefaults()
	c.Log.fillDefaults()
	c.HTTP.fillDefaults()
	c.Sync.fillDefaults()
}

func (a *AppConfig) fillDefaults() {
	defaultString(&a.Name, "agribase-backend")
	defaultString(&a.Env, "development")
	defaultString(&a.Port, "8080")
}

func (d *DatabaseConfig) fillDefaults() {
	defaultString(&d.Host, "localhost")
	defaultInt(&d.Port, 5432)
	defaultString(&d.User, "postgres")
	defaultString(&d.DBName, "agribase")
	defaultString(&d.SSLMode, "disable")
	defaultInt(&d.MaxOpenConns, 25)
	defaultInt(&d.MaxIdleConns, 5)
	defaultInt(&d.ConnMaxLifetime, 60)
	defaultInt(&d.ConnMaxIdleTime, 30)
}

func (j *JWTConfig) fillDefaults() {
	if j.AccessTokenExpiration == 0 {
		j.AccessTokenExpiration = 15 * time.Minute
	}
	defaultString(&j.Issuer, "agribase-backend")
}

func (l *LogConfig) fillDefaults() {
	defaultString(&l.Level, "info")
	defaultString(&l.Format, "console")
	defaultString(&l.Output, "stdout")
}

func (h *HTTPConfig) fillDefaults() {
	defaultDuration(&h.ReadTimeout, 15*time.Second)
	defaultDuration(&h.WriteTimeout, 15*time.Second)
	defaultDuration(&h.IdleTimeout, 60*time.Second)
	defaultInt(&h.MaxHeaderBytes, 1<<20)
	// CORS origins get no fallback on purpose. An empty list rejects every
	// cross-origin request until origins are configured explicitly.
	if len(h.CORSAllowMethods) == 0 {
		h.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(h.CORSAllowHeaders) == 0 {
		h.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Farm-ID"}
	}
}

func (s *SyncConfig) fillDefaults() {
	defaultInt(&s.BackfillBatchSize, 500)
}

func defaultString(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func defaultInt(target *int, value int) {
	if *target == 0 {
		*target = value
	}
}

func defaultDuration(target *time.Duration, value time.Duration) {
	if *target == 0 {
		*target = value
	}
}

func (c *Config) validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}
	if c.Sync.BackfillBatchSize < 0 {
		return fmt.Errorf("sync.backfill_batch_size cannot be negative")
	}
	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if d.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

// validateProduction rejects settings that are acceptable on a laptop but
// not on a deployed instance
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	return nil
}

// DSN builds the postgres connection URL, escaping user and password
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
