package port

import (
	"context"

	"expense-tracker/app/domain"
)

// ExpenseRepository defines expense data access. Every operation is scoped
// to the owning user's subject.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, userID string, id int64) (*domain.Expense, error)
	List(ctx context.Context, userID string) ([]*domain.Expense, error)
	Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// ExpenseUsecase defines the expense business logic. Get additionally
// returns a freshly minted read URL when the expense has a file key; the
// URL is derived, never stored.
type ExpenseUsecase interface {
	Create(ctx context.Context, userID, title string, amount int64) (*domain.Expense, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Expense, string, error)
	List(ctx context.Context, userID string) ([]*domain.Expense, error)
	Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, string, error)
	Delete(ctx context.Context, userID string, id int64) error
}
