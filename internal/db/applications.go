package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dizid/unplugged-cv/internal/types"
)

const applicationColumns = `id, user_id, COALESCE(job_description, ''), COALESCE(job_title, ''),
	COALESCE(company_name, ''), parsed_job, generated_cv, COALESCE(cover_letter, ''),
	COALESCE(model_used, ''), status, COALESCE(slug, ''), is_published,
	match_score, match_details, COALESCE(notes, ''), applied_at, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var app types.Application
	err := row.Scan(&app.ID, &app.UserID, &app.JobDescription, &app.JobTitle,
		&app.CompanyName, &app.ParsedJob, &app.GeneratedCV, &app.CoverLetter,
		&app.ModelUsed, &app.Status, &app.Slug, &app.IsPublished,
		&app.MatchScore, &app.MatchDetails, &app.Notes, &app.AppliedAt,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication inserts a new application record. Fills in the
// generated ID and timestamps on app.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = types.StatusDraft
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications
		 (id, user_id, job_description, job_title, company_name, parsed_job,
		  generated_cv, cover_letter, model_used, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		app.ID, app.UserID, app.JobDescription, app.JobTitle, app.CompanyName,
		app.ParsedJob, app.GeneratedCV, app.CoverLetter, app.ModelUsed,
		app.Status, app.Notes,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID, scoped to its owner.
// Returns nil, nil both when the record is absent and when it belongs to a
// different user.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID, userID string) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications retrieves a user's applications, newest first.
func (db *DB) ListApplications(ctx context.Context, userID string, limit int) ([]*types.Application, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// ApplicationUpdate holds the mutable application fields. Nil fields are
// left untouched.
type ApplicationUpdate struct {
	Status       *types.ApplicationStatus
	Notes        *string
	AppliedAt    *time.Time
	CoverLetter  *string
	MatchScore   *int
	MatchDetails []byte
}

// UpdateApplication applies a partial update to an owned application.
// Returns *NotFoundError when the record is absent or owned by someone
// else.
func (db *DB) UpdateApplication(ctx context.Context, id uuid.UUID, userID string, upd ApplicationUpdate) error {
	query := `UPDATE applications SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	if upd.Status != nil {
		query += fmt.Sprintf(", status = $%d", argNum)
		args = append(args, *upd.Status)
		argNum++
	}
	if upd.Notes != nil {
		query += fmt.Sprintf(", notes = $%d", argNum)
		args = append(args, *upd.Notes)
		argNum++
	}
	if upd.AppliedAt != nil {
		query += fmt.Sprintf(", applied_at = $%d", argNum)
		args = append(args, *upd.AppliedAt)
		argNum++
	}
	if upd.CoverLetter != nil {
		query += fmt.Sprintf(", cover_letter = $%d", argNum)
		args = append(args, *upd.CoverLetter)
		argNum++
	}
	if upd.MatchScore != nil {
		query += fmt.Sprintf(", match_score = $%d", argNum)
		args = append(args, *upd.MatchScore)
		argNum++
	}
	if upd.MatchDetails != nil {
		query += fmt.Sprintf(", match_details = $%d", argNum)
		args = append(args, upd.MatchDetails)
		argNum++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d", argNum, argNum+1)
	args = append(args, id, userID)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Kind: "application"}
	}
	return nil
}

// AttachCoverLetter stores a generated cover letter on an owned
// application.
func (db *DB) AttachCoverLetter(ctx context.Context, id uuid.UUID, userID, letter string) error {
	return db.UpdateApplication(ctx, id, userID, ApplicationUpdate{CoverLetter: &letter})
}

// DeleteApplication removes an owned application.
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Kind: "application"}
	}
	return nil
}

// PublishApplication makes an owned application publicly readable under
// the given slug. The slug is unique across all published CVs; a taken
// slug yields *SlugConflictError.
func (db *DB) PublishApplication(ctx context.Context, id uuid.UUID, userID, slug string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET slug = $1, is_published = TRUE, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		slug, id, userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &SlugConflictError{Slug: slug}
		}
		return fmt.Errorf("failed to publish application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Kind: "application"}
	}
	return nil
}

// GetPublishedBySlug retrieves a published application by its public slug.
// Returns nil, nil when no published CV has the slug.
func (db *DB) GetPublishedBySlug(ctx context.Context, slug string) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE slug = $1 AND is_published = TRUE`,
		slug,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get published CV: %w", err)
	}
	return app, nil
}
