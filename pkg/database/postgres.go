package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/uniportal/portal-api/pkg/config"
)

// Connections identify themselves so schedule queries are attributable
// in pg_stat_activity.
const applicationName = "portal-api"

// NewPostgres opens and pings a PostgreSQL pool for the portal schema.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", cfg.User),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Name),
		fmt.Sprintf("sslmode=%s", cfg.SSLMode),
		fmt.Sprintf("application_name=%s", applicationName),
		"connect_timeout=5",
	}

	db, err := sqlx.Open("postgres", strings.Join(parts, " "))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
