package domain

import (
	"strings"
	"time"
)

// Expense is the persisted resource. FileKey stays nil until a receipt is
// attached; once set it names an object that may or may not exist yet in
// the remote store, because the confirmation write can race ahead of the
// actual transfer.
type Expense struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	FileKey   *string   `json:"fileKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExpenseUpdate carries a partial update. Nil fields are left untouched;
// non-nil fields overwrite unconditionally (last-write-wins, no optimistic
// concurrency check).
type ExpenseUpdate struct {
	Title   *string
	Amount  *int64
	FileKey *string
}

// Empty reports whether the update would change nothing.
func (u ExpenseUpdate) Empty() bool {
	return u.Title == nil && u.Amount == nil && u.FileKey == nil
}

// Validate checks the update's fields. A fileKey must have the exact
// format this service mints; object existence is deliberately not checked.
func (u ExpenseUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrInvalidInput
	}
	if u.Amount != nil && *u.Amount < 0 {
		return ErrInvalidInput
	}
	if u.FileKey != nil && !ValidFileKey(*u.FileKey) {
		return ErrInvalidFileKey
	}
	return nil
}

// NewExpense builds an unsaved expense owned by the given subject.
func NewExpense(userID, title string, amount int64) (*Expense, error) {
	if strings.TrimSpace(title) == "" || amount < 0 {
		return nil, ErrInvalidInput
	}
	return &Expense{
		UserID: userID,
		Title:  strings.TrimSpace(title),
		Amount: amount,
	}, nil
}
