package database

import (
	"context"
	"fmt"
	"time"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/logger"

	_ "github.com/godror/godror" // Oracle driver (OCI based)
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go), registered as "oracle"
	"go.uber.org/zap"
)

const (
	DriverGoOra  = "oracle"
	DriverGodror = "godror"
)

func init() {
	// go-ora takes Oracle style :name / :1 binds
	sqlx.BindDriver(DriverGoOra, sqlx.NAMED)
}

// NewSQLXOracleDB opens and pings an Oracle connection pool with the configured driver.
func NewSQLXOracleDB(ctx context.Context, cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverGoOra
	}
	if driver != DriverGoOra && driver != DriverGodror {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database",
		zap.String("driver", driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("service", cfg.DBName))
	return db, nil
}
