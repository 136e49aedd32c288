package postgres

import (
	"fmt"
	"net/url"

	"github.com/fieldcrew/coating-scheduler/config"
)

// DSN builds the lib/pq key/value connection string.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}

// URL returns the postgres:// form used by the pgx pool. DB_DSN wins when set.
func URL(cfg *config.DatabaseConfig) string {
	if cfg.PoolDSN != "" {
		return cfg.PoolDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
