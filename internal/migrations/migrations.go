// Package migrations applies the SQL migrations shipped under migrations/ with golang-migrate.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

type Config struct {
	// Dir holds the *.up.sql / *.down.sql files.
	Dir string
	// DatabaseURL is a golang-migrate URL (clickhouse://..., mysql://...).
	DatabaseURL string
	// Steps > 0 migrates that many steps, in the direction given by Down.
	Steps int
	Down  bool
}

// SourceURL resolves dir to a file:// source URL and checks it is a directory.
func SourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat migrations dir %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return fmt.Sprintf("file://%s", filepath.ToSlash(abs)), nil
}

// Run applies cfg. The database driver must be registered by the caller.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	if cfg.Steps < 0 {
		return errors.New("steps must not be negative")
	}

	sourceURL, err := SourceURL(cfg.Dir)
	if err != nil {
		return err
	}
	m, err := migrate.New(sourceURL, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("migration source close error", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("migration database close error", zap.Error(dbErr))
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	switch {
	case cfg.Steps > 0 && cfg.Down:
		err = m.Steps(-cfg.Steps)
	case cfg.Steps > 0:
		err = m.Steps(cfg.Steps)
	case cfg.Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply", zap.String("dir", cfg.Dir))
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied",
		zap.String("dir", cfg.Dir),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Bool("down", cfg.Down))
	return nil
}
