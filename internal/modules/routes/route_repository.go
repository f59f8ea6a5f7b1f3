package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commute-watch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const routeColumns = "id, user_id, name, origin_address, destination_address, check_times, check_days, is_active, created_at, updated_at"

// RepositoryInterface defines the contract for the route repository.
type RepositoryInterface interface {
	Create(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error)
	FindByID(ctx context.Context, routeID string) (*models.Route, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Route, error)
	ListActive(ctx context.Context) ([]*models.Route, error)
	Update(ctx context.Context, routeID, userID string, req models.UpdateRouteRequest) (*models.Route, error)
	Delete(ctx context.Context, routeID, userID string) error
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new route repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// scanRoute is a helper to scan a row into a Route model.
func scanRoute(row pgx.Row) (*models.Route, error) {
	var route models.Route
	err := row.Scan(
		&route.ID,
		&route.UserID,
		&route.Name,
		&route.OriginAddress,
		&route.DestinationAddress,
		&route.CheckTimes,
		&route.CheckDays,
		&route.IsActive,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}
	return &route, nil
}

// Create inserts a new route for the given user.
func (r *Repository) Create(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error) {
	query := `
		INSERT INTO routes (user_id, name, origin_address, destination_address, check_times, check_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING ` + routeColumns

	row := r.db.QueryRow(ctx, query, userID, req.Name, req.OriginAddress, req.DestinationAddress, req.CheckTimes, req.CheckDays)
	route, err := scanRoute(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateRoute: %w", err)
	}
	return route, nil
}

// FindByID retrieves a single route by its ID.
func (r *Repository) FindByID(ctx context.Context, routeID string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	route, err := scanRoute(r.db.QueryRow(ctx, query, routeID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return route, nil
}

// ListByUserID retrieves all routes owned by a user, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByUserID.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByUserID.Scan: %w", err)
		}
		result = append(result, route)
	}
	return result, rows.Err()
}

// ListActive retrieves every active route across all users. This is the
// checker's fan-out read at the start of each tick.
func (r *Repository) ListActive(ctx context.Context) ([]*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE is_active = TRUE`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListActive.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListActive.Scan: %w", err)
		}
		result = append(result, route)
	}
	return result, rows.Err()
}

// Update modifies a route's editable fields. Ownership is enforced in the
// WHERE clause so one user cannot edit another's route.
func (r *Repository) Update(ctx context.Context, routeID, userID string, req models.UpdateRouteRequest) (*models.Route, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.OriginAddress != nil {
		addSet("origin_address", *req.OriginAddress)
	}
	if req.DestinationAddress != nil {
		addSet("destination_address", *req.DestinationAddress)
	}
	if req.CheckTimes != nil {
		addSet("check_times", *req.CheckTimes)
	}
	if req.CheckDays != nil {
		addSet("check_days", *req.CheckDays)
	}
	if req.IsActive != nil {
		addSet("is_active", *req.IsActive)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, routeID)
	}

	addSet("updated_at", time.Now())

	args = append(args, routeID, userID)
	query := fmt.Sprintf(`
		UPDATE routes SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING `+routeColumns,
		strings.Join(setClauses, ", "), argIdx, argIdx+1)

	route, err := scanRoute(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return route, nil
}

// Delete removes a route owned by the user; commute logs cascade.
func (r *Repository) Delete(ctx context.Context, routeID, userID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM routes WHERE id = $1 AND user_id = $2`, routeID, userID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountByUserID reports how many routes a user has. Used to detect the
// first route creation, which starts the trial.
func (r *Repository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM routes WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("repository.CountByUserID: %w", err)
	}
	return total, nil
}
