package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// ExpenseRepository implements port.ExpenseRepository for PostgreSQL.
// All queries are scoped to the owning user's subject.
type ExpenseRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewExpenseRepository creates a new PostgreSQL expense repository
func NewExpenseRepository(db DBTX, logger *slog.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger.With("component", "expense_repository"),
	}
}

// Create inserts the expense and fills its ID and timestamps.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (user_id, title, amount, file_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		expense.UserID,
		expense.Title,
		expense.Amount,
		expense.FileKey,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create expense", "user_id", expense.UserID, "error", err)
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID returns the expense owned by userID, or domain.ErrExpenseNotFound.
func (r *ExpenseRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.Expense, error) {
	query := `
		SELECT id, user_id, title, amount, file_key, created_at, updated_at
		FROM expenses
		WHERE id = $1 AND user_id = $2`

	expense := &domain.Expense{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Title,
		&expense.Amount,
		&expense.FileKey,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		r.logger.Error("failed to get expense", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// List returns the user's expenses, newest first.
func (r *ExpenseRepository) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	query := `
		SELECT id, user_id, title, amount, file_key, created_at, updated_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list expenses", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense := &domain.Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Title,
			&expense.Amount,
			&expense.FileKey,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	return expenses, nil
}

// Update applies a partial update with last-write-wins semantics and
// returns the resulting row, or domain.ErrExpenseNotFound.
func (r *ExpenseRepository) Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, error) {
	query := `
		UPDATE expenses
		SET title = COALESCE($3, title),
		    amount = COALESCE($4, amount),
		    file_key = COALESCE($5, file_key),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, amount, file_key, created_at, updated_at`

	expense := &domain.Expense{}
	err := r.db.QueryRow(ctx, query, id, userID, update.Title, update.Amount, update.FileKey).Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Title,
		&expense.Amount,
		&expense.FileKey,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		r.logger.Error("failed to update expense", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}

// Delete removes the expense owned by userID, or returns
// domain.ErrExpenseNotFound when no row matched.
func (r *ExpenseRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("failed to delete expense", "id", id, "error", err)
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}
