package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	gosql "github.com/go-sql-driver/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/goodnatureofminers/bridge-relay/internal/migrations"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	MySQLDSN      string `long:"mysql-dsn" env:"MIGRATIONS_MYSQL_DSN" default:"relay:relay@tcp(localhost:3306)/relay" description:"MySQL DSN (user:pass@tcp(host:port)/db)"`
	MigrationsDir string `long:"migrations-dir" env:"MIGRATIONS_DIR" default:"migrations/mysql" description:"Path to MySQL migration files"`
	Steps         int    `long:"steps" env:"MIGRATIONS_STEPS" default:"0" description:"Apply only this many migrations (0 applies all)"`
	Down          bool   `long:"down" env:"MIGRATIONS_DOWN" description:"Roll migrations back instead of applying them"`
}

func main() {
	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url, err := databaseURL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("invalid mysql dsn", zap.Error(err))
	}
	if err := migrations.Run(ctx, migrations.Config{
		Dir:         cfg.MigrationsDir,
		DatabaseURL: url,
		Steps:       cfg.Steps,
		Down:        cfg.Down,
	}, logger.Named("migrations")); err != nil {
		logger.Fatal("mysql migration run failed", zap.Error(err))
	}
}

// databaseURL turns a driver DSN into a golang-migrate URL with multi statement files enabled.
func databaseURL(dsn string) (string, error) {
	parsed, err := gosql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
	if err != nil {
		return "", err
	}
	parsed.MultiStatements = true
	return "mysql://" + parsed.FormatDSN(), nil
}
