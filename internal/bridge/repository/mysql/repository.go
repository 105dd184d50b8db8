// Package mysql is the relay's durable DataStore on MySQL.
package mysql

import (
	"errors"
	"fmt"
	"time"

	gosql "github.com/go-sql-driver/mysql"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/relay"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	defaultConnMaxLifetime = 3 * time.Minute
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 10
	defaultSlowThreshold   = 200 * time.Millisecond
	defaultInsertBatchSize = 500
)

type Config struct {
	DSN             string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	Logger          *zap.Logger
	Metrics         Metrics
}

type Repository struct {
	db      *gorm.DB
	metrics Metrics
}

var _ relay.DataStore = (*Repository)(nil)

func NewRepository(cfg Config) (*Repository, error) {
	if cfg.DSN == "" {
		return nil, errors.New("mysql dsn is required")
	}
	if cfg.Metrics == nil {
		return nil, errors.New("repository metrics is required")
	}

	dsn, err := gosql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	dsn.ParseTime = true

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(mysql.Open(dsn.FormatDSN()), &gorm.Config{
		Logger: gormLogger.New(zap.NewStdLog(logger.Named("gorm")), gormLogger.Config{
			SlowThreshold:             defaultSlowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql connection pool: %w", err)
	}
	sqlDB.SetConnMaxLifetime(orDefault(cfg.ConnMaxLifetime, defaultConnMaxLifetime))
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))

	return &Repository{db: db, metrics: cfg.Metrics}, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
