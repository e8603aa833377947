package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"rmetrack"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Backend struct {
		BaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8000"`
		Token   string        `envconfig:"BACKEND_TOKEN"`
		Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"20s"`
	}

	Poll struct {
		Interval time.Duration `envconfig:"POLL_INTERVAL" default:"60s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	AuditDB struct {
		Host     string `envconfig:"AUDIT_DB_HOST"`
		Port     int    `envconfig:"AUDIT_DB_PORT" default:"5432"`
		User     string `envconfig:"AUDIT_DB_USER" default:"postgres"`
		Password string `envconfig:"AUDIT_DB_PASSWORD"`
		Name     string `envconfig:"AUDIT_DB_NAME" default:"rmetrack"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	// User identifies the operator for the TUI, which has no login flow;
	// the HTTP API takes identity from the bearer token instead.
	User struct {
		Name  string `envconfig:"RME_USER_NAME"`
		Email string `envconfig:"RME_USER_EMAIL"`
	}
}

// AuditEnabled reports whether a local audit database is configured. The
// audit trail is optional; without it mutations still run, unrecorded.
func (c *Config) AuditEnabled() bool {
	return c.AuditDB.Host != ""
}

func (c *Config) AuditConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.AuditDB.User, c.AuditDB.Password, c.AuditDB.Host, c.AuditDB.Port, c.AuditDB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
