package usecase

import (
	"context"
	"log/slog"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// ExpenseUseCase implements the expense resource logic. It is the only
// writer of the stored file key; the derived file URL is minted fresh on
// every read and never stored.
type ExpenseUseCase struct {
	repo   port.ExpenseRepository
	signer port.ObjectSigner
	logger *slog.Logger
}

// NewExpenseUseCase creates a new ExpenseUseCase instance
func NewExpenseUseCase(repo port.ExpenseRepository, signer port.ObjectSigner, logger *slog.Logger) *ExpenseUseCase {
	return &ExpenseUseCase{
		repo:   repo,
		signer: signer,
		logger: logger.With("component", "expense_usecase"),
	}
}

// Create stores a new expense owned by the given subject.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID, title string, amount int64) (*domain.Expense, error) {
	expense, err := domain.NewExpense(userID, title, amount)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// Get returns the expense plus a freshly minted read URL when a file key
// is attached. The mint does not check that the object exists; a stale
// key yields a URL that 404s at the store.
func (uc *ExpenseUseCase) Get(ctx context.Context, userID string, id int64) (*domain.Expense, string, error) {
	expense, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	fileURL, err := uc.mintFileURL(ctx, expense)
	if err != nil {
		return nil, "", err
	}

	return expense, fileURL, nil
}

// List returns the user's expenses without file URLs; minting one
// capability per row would hit the signer N times for data the list view
// does not show.
func (uc *ExpenseUseCase) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	return uc.repo.List(ctx, userID)
}

// Update applies a partial update, last-write-wins. A fileKey in the
// update is the upload protocol's confirmation phase: it is accepted
// after format validation without verifying the object exists.
func (uc *ExpenseUseCase) Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, string, error) {
	if err := update.Validate(); err != nil {
		return nil, "", err
	}
	if update.Empty() {
		return nil, "", domain.ErrInvalidInput
	}

	expense, err := uc.repo.Update(ctx, userID, id, update)
	if err != nil {
		return nil, "", err
	}

	if update.FileKey != nil {
		uc.logger.Info("file key confirmed", "expense_id", id, "key", *update.FileKey)
	}

	fileURL, err := uc.mintFileURL(ctx, expense)
	if err != nil {
		return nil, "", err
	}

	return expense, fileURL, nil
}

// Delete removes the user's expense. The stored object, if any, is left
// behind in the store; cleanup is out of scope here.
func (uc *ExpenseUseCase) Delete(ctx context.Context, userID string, id int64) error {
	return uc.repo.Delete(ctx, userID, id)
}

func (uc *ExpenseUseCase) mintFileURL(ctx context.Context, expense *domain.Expense) (string, error) {
	if expense.FileKey == nil || *expense.FileKey == "" {
		return "", nil
	}
	return uc.signer.PresignGet(ctx, *expense.FileKey)
}
