package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

// Config carries the connection settings the app layer resolved from the
// environment (and optional config file).
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// PoolSize + MaxOverflow is the hard cap on open connections; a request
	// that cannot check one out before its context deadline fails with a
	// resource-exhausted error instead of queueing forever.
	PoolSize    int
	MaxOverflow int
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg Config, logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.PoolSize + cfg.MaxOverflow)
	sqlDB.SetMaxIdleConns(cfg.PoolSize)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	serviceLog.Info("Connected to Postgres",
		"host", cfg.Host,
		"database", cfg.Name,
		"pool_size", cfg.PoolSize,
		"max_overflow", cfg.MaxOverflow,
	)
	return &PostgresService{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll creates the three volcano tables and installs the cascade
// foreign keys. Meant for development and deploys without a migration tool;
// idempotent, so safe to run on every start.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.Volcano{},
		&domain.VolcanoStatusCurrent{},
		&domain.VolcanoStatusHistory{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, fk := range []struct {
		table      string
		constraint string
	}{
		{"volcano_status_current", "fk_volcano_status_current_volcano_id"},
		{"volcano_status_history", "fk_volcano_status_history_volcano_id"},
	} {
		if err := s.db.Exec(fmt.Sprintf(
			`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, fk.table, fk.constraint,
		)).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", fk.constraint, err)
		}
		if err := s.db.Exec(fmt.Sprintf(
			`ALTER TABLE %q
			ADD CONSTRAINT %q
			FOREIGN KEY ("volcano_id")
			REFERENCES "volcanoes"("id")
			ON DELETE CASCADE`, fk.table, fk.constraint,
		)).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.constraint, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
