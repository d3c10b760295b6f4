package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithQuerier(db pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, phone, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, submitted_at
	`
	var (
		storedID    string
		submittedAt time.Time
	)
	if err := r.db.QueryRow(ctx, query,
		id,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.SubmittedAt,
	).Scan(&storedID, &submittedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:          storedID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		SubmittedAt: submittedAt.UTC(),
	}, nil
}
