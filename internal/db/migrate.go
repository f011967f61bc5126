package db

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/diewo77/go-demenagement/internal/config"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MigrationsSource is where golang-migrate reads the SQL files from.
var MigrationsSource = "file://migrations"

var passwordRe = regexp.MustCompile(`(password=|:)([^\s@/]+)(@)?`)

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&models.Client{}, &models.Service{}, &models.Invoice{},
		&models.Vehicle{}, &models.Employee{}, &models.Profile{}, &models.CalendarEvent{},
	}
}

// Open connects to the configured Record Store, retrying while postgres starts.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	log := logging.Get().WithField("module", "db")
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	if cfg.IsSQLite() {
		dialector = sqlite.Open(cfg.DSN())
	} else {
		if cfg.DSN() == "" {
			return nil, errors.New("database DSN is empty, check the environment")
		}
		dialector = postgres.Open(cfg.DSN())
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", i+1).Warn("retrying DB connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.WithFields(logrus.Fields{"driver": cfg.Driver, "dsn": maskDSN(cfg.DSN())}).Info("database connected")
	return db, nil
}

// Migrate brings the schema up to date. With useSQL on postgres the SQL files
// run through golang-migrate; otherwise gorm AutoMigrate is used.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig, useSQL bool) error {
	log := logging.Get().WithField("module", "db")
	if useSQL && !cfg.IsSQLite() {
		log.Info("running SQL migrations")
		if err := runSQLMigrations(cfg.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if useSQL {
			log.Warn("SQL migrations target postgres, using AutoMigrate for sqlite")
		}
		for _, m := range Models() {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"clients", "prestations", "factures", "profiles"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// runSQLMigrations executes migrations from MigrationsSource using golang-migrate.
func runSQLMigrations(url string) error {
	m, err := migrate.New(MigrationsSource, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func maskDSN(dsn string) string {
	return passwordRe.ReplaceAllStringFunc(dsn, func(s string) string {
		m := passwordRe.FindStringSubmatch(s)
		if m[1] == ":" && m[3] == "" {
			return s
		}
		return m[1] + "***" + m[3]
	})
}
