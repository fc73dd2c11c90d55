package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// Mail providers
const (
	MailAuto    = "auto"
	MailSMTP    = "smtp"
	MailSES     = "ses"
	MailConsole = "console"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Storage configuration (JSON documents, media, upload limits)
	Storage StorageConfig `mapstructure:"storage"`

	// Database configuration, used only by the postgres driver
	Database DatabaseConfig `mapstructure:"database"`

	// Outgoing mail configuration
	Mail MailConfig `mapstructure:"mail"`

	// Admin session configuration
	Admin AdminConfig `mapstructure:"admin"`

	// Form submission throttle
	Throttle ThrottleConfig `mapstructure:"throttle"`

	// Prometheus metrics
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Logging configuration
	Log LogConfig `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"required|min:1"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"required|min:1"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required|min:1"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

// StorageConfig holds persistence and upload settings
type StorageConfig struct {
	Driver        string        `mapstructure:"driver" validate:"required|in:json,postgres"`
	UploadDir     string        `mapstructure:"upload_dir" validate:"required"`
	MaxUploadSize int64         `mapstructure:"max_upload_size" validate:"required|min:1"` // in bytes
	SweepInterval time.Duration `mapstructure:"sweep_interval"`                            // 0 disables the sweeper
	SweepGrace    time.Duration `mapstructure:"sweep_grace"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Name         string        `mapstructure:"name"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// MailConfig holds mail transport settings
type MailConfig struct {
	Provider   string `mapstructure:"provider" validate:"required|in:auto,smtp,ses,console"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	SMTPHost   string `mapstructure:"smtp_host"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	UseTLS     bool   `mapstructure:"use_tls"`
	SESRegion  string `mapstructure:"ses_region"`
	SubjectTag string `mapstructure:"subject_tag"`
}

// HasSMTPCredentials reports whether an authenticated SMTP transport can be used.
func (m *MailConfig) HasSMTPCredentials() bool {
	return m.Username != "" && m.Password != ""
}

// Recipients splits the comma-separated To list.
func (m *MailConfig) Recipients() []string {
	to := m.To
	if to == "" {
		to = m.Username
	}
	var out []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// AdminConfig holds admin login settings
type AdminConfig struct {
	Password    string        `mapstructure:"password"`
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" validate:"required|min:1"`
}

// ThrottleConfig limits form submissions per client
type ThrottleConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
	CacheMB int           `mapstructure:"cache_mb"`
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"in:debug,info,warn,error"`
	Format string `mapstructure:"format" validate:"in:json,pretty"` // "json" or "pretty"
}

// envBindings maps config keys to the environment variables operators already use.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
	"server.cors_origin":      "CORS_ORIGIN",

	"storage.driver":          "STORAGE_DRIVER",
	"storage.upload_dir":      "UPLOAD_DIR",
	"storage.max_upload_size": "MAX_UPLOAD_SIZE",
	"storage.sweep_interval":  "MEDIA_SWEEP_INTERVAL",
	"storage.sweep_grace":     "MEDIA_SWEEP_GRACE",

	"database.host":           "DB_HOST",
	"database.port":           "DB_PORT",
	"database.user":           "DB_USER",
	"database.password":       "DB_PASSWORD",
	"database.name":           "DB_NAME",
	"database.sslmode":        "DB_SSLMODE",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns": "DB_MAX_IDLE_CONNS",
	"database.max_lifetime":   "DB_MAX_LIFETIME",

	"mail.provider":    "MAIL_PROVIDER",
	"mail.from":        "EMAIL_FROM",
	"mail.to":          "EMAIL_TO",
	"mail.smtp_host":   "SMTP_HOST",
	"mail.smtp_port":   "SMTP_PORT",
	"mail.username":    "EMAIL_USER",
	"mail.password":    "EMAIL_PASS",
	"mail.use_tls":     "SMTP_TLS",
	"mail.ses_region":  "SES_REGION",
	"mail.subject_tag": "EMAIL_SUBJECT_TAG",

	"admin.password":     "ADMIN_PASSWORD",
	"admin.token_secret": "ADMIN_TOKEN_SECRET",
	"admin.token_ttl":    "ADMIN_TOKEN_TTL",

	"throttle.enabled":  "THROTTLE_ENABLED",
	"throttle.limit":    "THROTTLE_LIMIT",
	"throttle.window":   "THROTTLE_WINDOW",
	"throttle.cache_mb": "THROTTLE_CACHE_MB",

	"metrics.enabled": "METRICS_ENABLED",

	"log.level":  "LOG_LEVEL",
	"log.format": "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 300*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.max_upload_size", int64(100*1024*1024)) // 100MB
	v.SetDefault("storage.sweep_interval", time.Hour)
	v.SetDefault("storage.sweep_grace", 24*time.Hour)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "leadsite")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", 5*time.Minute)

	v.SetDefault("mail.provider", MailAuto)
	v.SetDefault("mail.from", "noreply@example.com")
	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.use_tls", true)
	v.SetDefault("mail.subject_tag", "Website")

	v.SetDefault("admin.token_ttl", 12*time.Hour)

	v.SetDefault("throttle.enabled", true)
	v.SetDefault("throttle.limit", 5)
	v.SetDefault("throttle.window", 10*time.Minute)
	v.SetDefault("throttle.cache_mb", 8)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from defaults, an optional YAML file, .env and
// environment variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		filename := filepath.Base(configPath)
		v.AddConfigPath(filepath.Dir(configPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if cfg.Admin.TokenSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Admin.TokenSecret = secret
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %w", v.Errors)
	}

	if c.Storage.Driver == DriverPostgres {
		if c.Database.Host == "" {
			return errors.New("DB_HOST is required for the postgres driver")
		}
		if c.Database.Name == "" {
			return errors.New("DB_NAME is required for the postgres driver")
		}
	}
	if c.Mail.Provider == MailSES && c.Mail.SESRegion == "" {
		return errors.New("SES_REGION is required for the ses mail provider")
	}
	if c.Mail.Provider == MailSMTP && c.Mail.SMTPHost == "" {
		return errors.New("SMTP_HOST is required for the smtp mail provider")
	}
	if c.Throttle.Enabled && (c.Throttle.Limit <= 0 || c.Throttle.Window <= 0) {
		return errors.New("throttle limit and window must be positive when enabled")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
