package usecase

import (
	"context"
	"fmt"

	"expense-tracker/app/domain"
)

// fakeSigner is a hand-written port.ObjectSigner fake.
type fakeSigner struct {
	putCalls []signCall
	getCalls []string
	putErr   error
	getErr   error
}

type signCall struct {
	key         string
	contentType string
}

func (f *fakeSigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	f.putCalls = append(f.putCalls, signCall{key: key, contentType: contentType})
	if f.putErr != nil {
		return "", f.putErr
	}
	return "https://store.example.com/" + key + "?sig=put", nil
}

func (f *fakeSigner) PresignGet(ctx context.Context, key string) (string, error) {
	f.getCalls = append(f.getCalls, key)
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://store.example.com/" + key + "?sig=get", nil
}

// fakeExpenseRepo is an in-memory port.ExpenseRepository fake.
type fakeExpenseRepo struct {
	expenses map[int64]*domain.Expense
	nextID   int64
	err      error
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[int64]*domain.Expense), nextID: 1}
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	if f.err != nil {
		return f.err
	}
	expense.ID = f.nextID
	f.nextID++
	copied := *expense
	f.expenses[expense.ID] = &copied
	return nil
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, userID string, id int64) (*domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	expense, ok := f.expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	copied := *expense
	return &copied, nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Expense
	for _, expense := range f.expenses {
		if expense.UserID == userID {
			copied := *expense
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	expense, ok := f.expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	if update.Title != nil {
		expense.Title = *update.Title
	}
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.FileKey != nil {
		expense.FileKey = update.FileKey
	}
	copied := *expense
	return &copied, nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, userID string, id int64) error {
	if f.err != nil {
		return f.err
	}
	expense, ok := f.expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeExpenseRepo) seed(userID, title string, amount int64) *domain.Expense {
	expense := &domain.Expense{UserID: userID, Title: title, Amount: amount}
	if err := f.Create(context.Background(), expense); err != nil {
		panic(fmt.Sprintf("seed: %v", err))
	}
	return expense
}
