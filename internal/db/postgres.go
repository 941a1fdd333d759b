package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/types"
	"github.com/mcampos/library-api/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "library", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := Migrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// Migrate creates the schema plus the two storage-level uniqueness
// guards the services rely on: the unique index on book.isbn and the
// partial unique index that allows at most one not-returned loan per
// book. The partial index makes concurrent issue calls for the same
// book safe; the service-level existence check alone would not be.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&types.Book{},
		&types.Loan{},
	); err != nil {
		return err
	}
	if err := gdb.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_loan_active_book ON "loan"(book_id) WHERE returned = false`,
	).Error; err != nil {
		return fmt.Errorf("failed to create idx_loan_active_book: %w", err)
	}
	return nil
}
