package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationStatementTimeout = 30 * time.Second

// migrateLogger forwards golang-migrate's printf-style logs to slog
type migrateLogger struct {
	ctx    context.Context
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.DebugContext(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Enabled(l.ctx, slog.LevelDebug)
}

type migrator struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewDatabaseMigrator(db *sqlx.DB, logger *slog.Logger) *migrator {
	return &migrator{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the schema if needed and applies every pending migration to it.
// A schema left dirty by an interrupted migration is an error.
func (m *migrator) Migrate(ctx context.Context, schemaName string) error {
	logger := m.logger.With("schema", schemaName)

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("migrate: failed to connect to db: %w", err)
	}
	defer conn.Close()

	quotedSchema := pq.QuoteIdentifier(schemaName)
	for _, statement := range []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quotedSchema),
		fmt.Sprintf("SET search_path TO %s", quotedSchema),
	} {
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate: failed to prepare schema (%s): %w", statement, err)
		}
	}

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrate: failed to read embedded migrations: %w", err)
	}
	defer source.Close()

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		DatabaseName:     DB_NAME,
		SchemaName:       schemaName,
		StatementTimeout: migrationStatementTimeout,
	})
	if err != nil {
		return fmt.Errorf("migrate: failed to create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: failed to create migration instance: %w", err)
	}
	defer instance.Close()
	instance.Log = migrateLogger{ctx: ctx, logger: logger}

	start := time.Now()
	logger.InfoContext(ctx, "Starting migrations")

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: failed to migrate: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("migrate: failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migrate: schema %s is dirty at version %d", schemaName, version)
	}

	logger.InfoContext(ctx, "Migrations completed", "version", version, "duration", time.Since(start).String())

	return nil
}
