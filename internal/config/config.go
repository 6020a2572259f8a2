package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/database"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

// Config is read from the process environment at startup.
type Config struct {
	Port                    string `env:"PORT"                       envDefault:"3000"`
	DBPath                  string `env:"DB_PATH"                    envDefault:"taskmgr.db"`
	JWTSecret               string `env:"JWT_SECRET,required,notEmpty"`
	JWTRefreshSecret        string `env:"JWT_REFRESH_SECRET"`
	Issuer                  string `env:"JWT_ISSUER"                 envDefault:"multi-role-task-scheduler"`
	AdminCreationSecret     string `env:"ADMIN_CREATION_SECRET"`
	AdminCreationSecretFile string `env:"ADMIN_CREATION_SECRET_FILE"`
	CORSOrigin              string `env:"CORS_ORIGIN"                envDefault:"http://localhost:5173"`
	SecureCookies           bool   `env:"SECURE_COOKIES"             envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT cannot be blank")
	}
	if strings.TrimSpace(c.Issuer) == "" {
		return errors.New("JWT_ISSUER cannot be blank")
	}
	if c.AdminCreationSecret != "" && c.AdminCreationSecretFile != "" {
		return errors.New("set only one of ADMIN_CREATION_SECRET and ADMIN_CREATION_SECRET_FILE")
	}
	return nil
}

// ListenAddr accepts PORT as either "3000" or ":3000".
func (c *Config) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c *Config) Secrets() tokens.Secrets {
	return tokens.Secrets{
		Access:  []byte(c.JWTSecret),
		Refresh: []byte(c.JWTRefreshSecret),
		Issuer:  c.Issuer,
	}
}

func (c *Config) LoadDatabase() *database.SQLiteStore {
	return database.NewSQLiteStore(c.DBPath)
}
