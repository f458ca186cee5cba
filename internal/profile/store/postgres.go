package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rolodex/internal/profile/models"
	"rolodex/pkg/platform/sentinel"
)

// Postgres persists each profile as one JSONB document row. The email column
// is extracted from the document solely to carry the case-insensitive unique
// index; the document itself is the source of truth and is always written
// wholesale (see package doc for the concurrency consequences).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Postgres) Create(ctx context.Context, p *models.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Email, doc, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM profiles WHERE id = $1`, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return unmarshalProfile(doc)
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM profiles ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p, err := unmarshalProfile(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (s *Postgres) Replace(ctx context.Context, p *models.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET email = $2, document = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Email, doc, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("replace profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindSummaries(ctx context.Context, ids []uuid.UUID) ([]models.FriendSummary, error) {
	if len(ids) == 0 {
		return []models.FriendSummary{}, nil
	}

	textIDs := make([]string, len(ids))
	for i, id := range ids {
		textIDs[i] = id.String()
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document->>'name', email FROM profiles WHERE id::text = ANY($1)`,
		textIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]models.FriendSummary, len(ids))
	for rows.Next() {
		var sum models.FriendSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Email); err != nil {
			return nil, fmt.Errorf("scan friend summary: %w", err)
		}
		found[sum.ID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}

	// Preserve reference order; dangling ids are skipped, never an error.
	out := make([]models.FriendSummary, 0, len(ids))
	for _, id := range ids {
		if sum, ok := found[id]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

func unmarshalProfile(doc []byte) (*models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile document: %w", err)
	}
	return &p, nil
}
