package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// ResourceRepo defines the persistence operations for bookable resources
// (cars, rental drivers, professional drivers).
type ResourceRepo interface {
	// Create inserts a new resource and returns the persisted record.
	Create(ctx context.Context, resource domain.Resource) (domain.Resource, error)

	// GetByID retrieves a single resource by its UUID primary key.
	// Returns domain.ErrNotFound if no resource with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error)

	// ListCandidates returns all resources of the given type ordered by
	// (created_at, id) so repeated identical queries are deterministic.
	// Suspended resources are excluded unless includeSuspended is set
	// (administrative override). Operational status reflects maintenance
	// state only — temporal conflicts are the availability engine's job.
	ListCandidates(ctx context.Context, rtype domain.ResourceType, includeSuspended bool) ([]domain.Resource, error)

	// UpdateOperationalStatus sets a resource's administrative status.
	// Returns domain.ErrNotFound if the resource does not exist.
	UpdateOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error)

	// UpdateRatingSummary overwrites the derived {average, count} aggregate.
	// Only the rating service calls this.
	UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error
}

// pgResourceRepo is the Postgres implementation of ResourceRepo.
type pgResourceRepo struct {
	db db
}

// NewResourceRepo constructs a ResourceRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewResourceRepo(db db) ResourceRepo {
	return &pgResourceRepo{db: db}
}

const resourceColumns = `id, type, name, operational_status, rating_average, rating_count, created_at, updated_at`

func (r *pgResourceRepo) Create(ctx context.Context, resource domain.Resource) (domain.Resource, error) {
	const q = `
		INSERT INTO resources (type, name, operational_status)
		VALUES (@type, @name, @operational_status)
		RETURNING ` + resourceColumns

	args := pgx.NamedArgs{
		"type":               string(resource.Type),
		"name":               resource.Name,
		"operational_status": string(resource.OperationalStatus),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanResource(row)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("repo.ResourceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error) {
	const q = `SELECT ` + resourceColumns + ` FROM resources WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanResource(row)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("repo.ResourceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgResourceRepo) ListCandidates(ctx context.Context, rtype domain.ResourceType, includeSuspended bool) ([]domain.Resource, error) {
	const q = `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE type = @type
		  AND (@include_suspended OR operational_status <> 'suspended')
		ORDER BY created_at, id`

	args := pgx.NamedArgs{
		"type":              string(rtype),
		"include_suspended": includeSuspended,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ResourceRepo.ListCandidates: %w", err)
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ResourceRepo.ListCandidates: scan: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ResourceRepo.ListCandidates: rows: %w", err)
	}

	return resources, nil
}

func (r *pgResourceRepo) UpdateOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error) {
	const q = `
		UPDATE resources
		SET operational_status = @status,
		    updated_at         = now()
		WHERE id = @id
		RETURNING ` + resourceColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	result, err := scanResource(row)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("repo.ResourceRepo.UpdateOperationalStatus: %w", err)
	}
	return result, nil
}

func (r *pgResourceRepo) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	const q = `
		UPDATE resources
		SET rating_average = @average,
		    rating_count   = @count,
		    updated_at     = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "average": summary.Average, "count": summary.Count})
	if err != nil {
		return fmt.Errorf("repo.ResourceRepo.UpdateRatingSummary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ResourceRepo.UpdateRatingSummary: %w", domain.ErrNotFound)
	}
	return nil
}

// scanResource maps a single database row into a domain.Resource.
func scanResource(s scanner) (domain.Resource, error) {
	var (
		res    domain.Resource
		id     pgtype.UUID
		rtype  string
		status string
	)

	err := s.Scan(&id, &rtype, &res.Name, &status, &res.Rating.Average, &res.Rating.Count,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resource{}, domain.ErrNotFound
		}
		return domain.Resource{}, err
	}

	res.ID = uuid.UUID(id.Bytes)
	res.Type = domain.ResourceType(rtype)
	res.OperationalStatus = domain.OperationalStatus(status)

	return res, nil
}
