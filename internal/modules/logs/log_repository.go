package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commute-watch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const logColumns = "id, route_id, duration_minutes, duration_in_traffic_minutes, day_of_week, local_date, check_slot, checked_at"

// uniqueViolation is the Postgres error code raised when an insert hits the
// (route_id, local_date, check_slot) unique index.
const uniqueViolation = "23505"

// RepositoryInterface defines the contract for the commute log repository.
type RepositoryInterface interface {
	Insert(ctx context.Context, log *models.CommuteLog) error
	ListByRouteBetween(ctx context.Context, routeID string, from, to time.Time) ([]*models.CommuteLog, error)
	ListByRouteID(ctx context.Context, routeID string) ([]*models.CommuteLog, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new commute log repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanLog(row pgx.Row) (*models.CommuteLog, error) {
	var l models.CommuteLog
	err := row.Scan(
		&l.ID,
		&l.RouteID,
		&l.DurationMinutes,
		&l.DurationInTrafficMinutes,
		&l.DayOfWeek,
		&l.LocalDate,
		&l.CheckSlot,
		&l.CheckedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan commute log: %w", err)
	}
	return &l, nil
}

// Insert writes one commute log row. A unique violation on the per-slot key
// comes back as models.ErrAlreadyLogged so the caller can treat a concurrent
// duplicate tick as a skip instead of a failure.
func (r *Repository) Insert(ctx context.Context, log *models.CommuteLog) error {
	query := `
		INSERT INTO commute_logs (route_id, duration_minutes, duration_in_traffic_minutes, day_of_week, local_date, check_slot, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		log.RouteID,
		log.DurationMinutes,
		log.DurationInTrafficMinutes,
		log.DayOfWeek,
		log.LocalDate,
		log.CheckSlot,
		log.CheckedAt,
	).Scan(&log.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrAlreadyLogged
		}
		return fmt.Errorf("repository.InsertLog: %w", err)
	}
	return nil
}

// ListByRouteBetween retrieves a route's logs whose checked_at falls in the
// given UTC range. The checker uses it to scan the owner-local calendar day.
func (r *Repository) ListByRouteBetween(ctx context.Context, routeID string, from, to time.Time) ([]*models.CommuteLog, error) {
	query := `
		SELECT ` + logColumns + `
		FROM commute_logs
		WHERE route_id = $1 AND checked_at >= $2 AND checked_at <= $3
		ORDER BY checked_at`

	rows, err := r.db.Query(ctx, query, routeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByRouteBetween.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.CommuteLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByRouteBetween.Scan: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// ListByRouteID retrieves a route's full history, oldest first, matching the
// order the history chart expects.
func (r *Repository) ListByRouteID(ctx context.Context, routeID string) ([]*models.CommuteLog, error) {
	query := `SELECT ` + logColumns + ` FROM commute_logs WHERE route_id = $1 ORDER BY checked_at`

	rows, err := r.db.Query(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByRouteID.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.CommuteLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByRouteID.Scan: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
