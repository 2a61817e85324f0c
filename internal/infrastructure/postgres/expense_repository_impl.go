package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/internal/domain/repository"
)

// ExpenseRepository persists expenses in Postgres. All reads and writes
// carry owner_id in the predicate; a row owned by someone else behaves
// exactly like a row that does not exist.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *entity.Expense) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (title, amount, category, date, description, receipt_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Amount, e.Category, e.Date, e.Description, e.ReceiptURL, e.OwnerID)

	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, amount, category, date, description, receipt_url, owner_id, created_at, updated_at
		FROM expenses
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Expense, 0)
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Date,
			&e.Description, &e.ReceiptURL, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.Expense, error) {
	// A malformed id can never match a row; avoid a scan error from the
	// uuid cast and treat it as a miss.
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}

	e := &entity.Expense{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, amount, category, date, description, receipt_url, owner_id, created_at, updated_at
		FROM expenses
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	if err := row.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Date,
		&e.Description, &e.ReceiptURL, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *entity.Expense) error {
	if uuid.Validate(e.ID) != nil {
		return repository.ErrNotFound
	}

	e.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE expenses
		SET title = $1, amount = $2, category = $3, date = $4, description = $5, receipt_url = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`, e.Title, e.Amount, e.Category, e.Date, e.Description, e.ReceiptURL, e.UpdatedAt, e.ID, e.OwnerID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	if uuid.Validate(id) != nil {
		return repository.ErrNotFound
	}

	res, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ExpenseRepository) Summarize(ctx context.Context, ownerID string, f repository.SummaryFilter) (*repository.Summary, error) {
	where := "WHERE owner_id = $1"
	args := []any{ownerID}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND date < $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	s := &repository.Summary{Categories: []string{}}
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*), COALESCE(AVG(amount), 0)
		FROM expenses `+where, args...)
	if err := row.Scan(&s.TotalAmount, &s.TotalCount, &s.AvgAmount); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category
		FROM expenses `+where+`
		ORDER BY category`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		s.Categories = append(s.Categories, c)
	}
	return s, rows.Err()
}

var _ repository.ExpenseRepository = (*ExpenseRepository)(nil)
