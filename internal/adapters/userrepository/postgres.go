package userrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  otel.Tracer("gamelens/userrepository/postgres"),
		nowFunc: nowFunc,
	}
}

type userRow struct {
	UserID         string    `db:"user_id"`
	FirstSeenAt    time.Time `db:"first_seen_at"`
	LastSeenAt     time.Time `db:"last_seen_at"`
	LibraryVisits  int64     `db:"library_visits"`
	ActivityVisits int64     `db:"activity_visits"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		UserID:         r.UserID,
		FirstSeenAt:    r.FirstSeenAt,
		LastSeenAt:     r.LastSeenAt,
		LibraryVisits:  r.LibraryVisits,
		ActivityVisits: r.ActivityVisits,
	}
}

// visitCounters is the initial counter row for a first visit of the given kind
func visitCounters(kind domain.VisitKind) (library int64, activity int64) {
	if kind == domain.VisitKindLibrary {
		return 1, 0
	}
	return 0, 1
}

func (p *Postgres) RegisterVisit(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.RegisterVisit")
	defer span.End()
	span.SetAttributes(attribute.String("visit.kind", string(kind)))

	if userID == "" {
		err := fmt.Errorf("userID is empty")
		reporting.Report(ctx, err)
		return domain.User{}, err
	}
	if err := kind.Validate(); err != nil {
		reporting.Report(ctx, err, map[string]string{"userID": userID})
		return domain.User{}, err
	}

	libraryVisits, activityVisits := visitCounters(kind)

	// Upsert with the counter deltas as the inserted values, so the conflict branch
	// can add EXCLUDED.* onto the existing row.
	query := fmt.Sprintf(`INSERT INTO %s.users AS existing
		(user_id, first_seen_at, last_seen_at, library_visits, activity_visits)
		VALUES ($1, $2, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			first_seen_at = LEAST(existing.first_seen_at, EXCLUDED.first_seen_at),
			last_seen_at = GREATEST(existing.last_seen_at, EXCLUDED.last_seen_at),
			library_visits = existing.library_visits + EXCLUDED.library_visits,
			activity_visits = existing.activity_visits + EXCLUDED.activity_visits
		RETURNING user_id, first_seen_at, last_seen_at, library_visits, activity_visits`,
		pq.QuoteIdentifier(p.schema),
	)

	var row userRow
	err := p.db.QueryRowxContext(ctx, query, userID, p.nowFunc(), libraryVisits, activityVisits).StructScan(&row)
	if err != nil {
		err := fmt.Errorf("failed to upsert user visit: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
			"kind":   string(kind),
		})
		return domain.User{}, err
	}

	return row.toDomain(), nil
}
