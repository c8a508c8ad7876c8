package libraryrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: otel.Tracer("gamelens/libraryrepository/postgres"),
	}
}

type dbSnapshot struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	QueriedAt         time.Time `db:"queried_at"`
	DataFormatVersion int       `db:"data_format_version"`
	Games             []byte    `db:"games"`
}

func (p *Postgres) StoreSnapshot(ctx context.Context, snapshot domain.LibrarySnapshot) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreSnapshot")
	defer span.End()

	if !strutils.UUIDIsNormalized(snapshot.UserID) {
		err := fmt.Errorf("user id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userID": snapshot.UserID,
		})
		return err
	}

	games, err := gamesToDataStorage(snapshot.Games)
	if err != nil {
		err := fmt.Errorf("failed to convert games to data storage: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	id := snapshot.ID
	if id == "" {
		dbID, err := uuid.NewV7()
		if err != nil {
			err := fmt.Errorf("failed to generate db id: %w", err)
			reporting.Report(ctx, err)
			return err
		}
		id = dbID.String()
	}
	span.SetAttributes(attribute.Int("games", len(snapshot.Games)))

	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	// Don't store consecutive duplicate snapshots
	var lastGames []byte
	var lastDataFormatVersion int
	err = txx.QueryRowxContext(
		ctx,
		`SELECT
			data_format_version, games
		FROM library_snapshots
		WHERE user_id = $1
		ORDER BY queried_at DESC LIMIT 1`,
		snapshot.UserID,
	).Scan(&lastDataFormatVersion, &lastGames)
	if err == nil {
		if lastDataFormatVersion == DATA_FORMAT_VERSION {
			equal, err := strutils.JSONStringsEqual(games, lastGames)
			if err != nil {
				err := fmt.Errorf("failed to compare games to previously stored games: %w", err)
				reporting.Report(ctx, err)
				return err
			}
			if equal {
				logging.FromContext(ctx).InfoContext(ctx, "Library unchanged since last snapshot, not storing")
				return nil
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		err := fmt.Errorf("failed to query last snapshot: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO library_snapshots
		(id, user_id, queried_at, data_format_version, games)
		VALUES ($1, $2, $3, $4, $5)`,
		id,
		snapshot.UserID,
		snapshot.QueriedAt,
		DATA_FORMAT_VERSION,
		games,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert snapshot: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	logging.FromContext(ctx).InfoContext(ctx, "Stored library snapshot", "dataFormatVersion", DATA_FORMAT_VERSION, "games", len(snapshot.Games))

	return nil
}

func (p *Postgres) GetLatestSnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetLatestSnapshot")
	defer span.End()

	if !strutils.UUIDIsNormalized(userID) {
		err := fmt.Errorf("user id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.LibrarySnapshot{}, err
	}

	var snapshot dbSnapshot
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`SELECT
			id, user_id, queried_at, data_format_version, games
		FROM %s.library_snapshots
		WHERE user_id = $1
		ORDER BY queried_at DESC LIMIT 1`,
			pq.QuoteIdentifier(p.schema)),
		userID,
	).StructScan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LibrarySnapshot{}, domain.ErrLibraryNotFound
	}
	if err != nil {
		err := fmt.Errorf("failed to query latest snapshot: %w", err)
		reporting.Report(ctx, err)
		return domain.LibrarySnapshot{}, err
	}

	if snapshot.DataFormatVersion != DATA_FORMAT_VERSION {
		err := fmt.Errorf("unsupported data format version %d", snapshot.DataFormatVersion)
		reporting.Report(ctx, err, map[string]string{
			"snapshotID": snapshot.ID,
		})
		return domain.LibrarySnapshot{}, err
	}

	games, err := gamesFromDataStorage(snapshot.Games)
	if err != nil {
		err := fmt.Errorf("failed to convert stored games: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"snapshotID": snapshot.ID,
		})
		return domain.LibrarySnapshot{}, err
	}

	return domain.LibrarySnapshot{
		ID:        snapshot.ID,
		UserID:    snapshot.UserID,
		QueriedAt: snapshot.QueriedAt,
		Games:     games,
	}, nil
}
