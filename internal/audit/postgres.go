package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo appends events to the audit_events table.
// The table is INSERT-only; no update or delete statements exist.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, kind, actor_id, subject, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	if _, err := r.db.ExecContext(ctx, q,
		e.ID, string(e.Kind), e.ActorID, e.Subject, e.Detail, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}
