package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("worker not found")

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Worker struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repo struct {
	db querier
}

func NewRepo(db querier) *Repo {
	return &Repo{db: db}
}

type UpsertWorker struct {
	ExternalID  string
	DisplayName string
	Phone       string
}

// EnsureWorker registers the worker on first sight and returns its id.
func (r *Repo) EnsureWorker(ctx context.Context, w UpsertWorker) (string, error) {
	if w.ExternalID == "" {
		return "", fmt.Errorf("external_id required")
	}

	const q = `
insert into workers (external_id, display_name, phone, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (external_id) do update
set
  display_name = coalesce(excluded.display_name, workers.display_name),
  phone = coalesce(excluded.phone, workers.phone),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRow(ctx, q, w.ExternalID, w.DisplayName, w.Phone).Scan(&id); err != nil {
		return "", fmt.Errorf("ensure worker: %w", err)
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Worker, error) {
	const q = `
select id::text, external_id, coalesce(display_name,''), coalesce(phone,''), created_at
from workers
where id = $1;
`
	var w Worker
	err := r.db.QueryRow(ctx, q, id).Scan(&w.ID, &w.ExternalID, &w.DisplayName, &w.Phone, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return &w, nil
}
