package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/app/domain"
	"expense-tracker/app/utils/logger"
)

const testUserID = "kp_user_123"

func createTestRepository(t *testing.T) (*ExpenseRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	testLogger, err := logger.New("error")
	require.NoError(t, err)

	repo := NewExpenseRepository(mockDB, testLogger).(*ExpenseRepository)
	return repo, mockDB
}

func expenseColumns() []string {
	return []string{"id", "user_id", "title", "amount", "file_key", "created_at", "updated_at"}
}

func TestExpenseRepository_Create(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	now := time.Now()
	mockDB.ExpectQuery("INSERT INTO expenses").
		WithArgs(testUserID, "Lunch", int64(1250), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	expense := &domain.Expense{UserID: testUserID, Title: "Lunch", Amount: 1250}
	err := repo.Create(context.Background(), expense)
	require.NoError(t, err)

	assert.Equal(t, int64(1), expense.ID)
	assert.Equal(t, now, expense.CreatedAt)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestExpenseRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		fileKey := "uploads/1700000000000-receipt.png"
		now := time.Now()
		mockDB.ExpectQuery("SELECT (.+) FROM expenses").
			WithArgs(int64(7), testUserID).
			WillReturnRows(pgxmock.NewRows(expenseColumns()).
				AddRow(int64(7), testUserID, "Taxi", int64(2300), &fileKey, now, now))

		expense, err := repo.GetByID(context.Background(), testUserID, 7)
		require.NoError(t, err)

		assert.Equal(t, int64(7), expense.ID)
		assert.Equal(t, "Taxi", expense.Title)
		require.NotNil(t, expense.FileKey)
		assert.Equal(t, fileKey, *expense.FileKey)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		mockDB.ExpectQuery("SELECT (.+) FROM expenses").
			WithArgs(int64(99), testUserID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(context.Background(), testUserID, 99)
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
	})
}

func TestExpenseRepository_List(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	now := time.Now()
	mockDB.ExpectQuery("SELECT (.+) FROM expenses").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(expenseColumns()).
			AddRow(int64(2), testUserID, "Taxi", int64(2300), (*string)(nil), now, now).
			AddRow(int64(1), testUserID, "Lunch", int64(1250), (*string)(nil), now.Add(-time.Hour), now.Add(-time.Hour)))

	expenses, err := repo.List(context.Background(), testUserID)
	require.NoError(t, err)

	require.Len(t, expenses, 2)
	assert.Equal(t, int64(2), expenses[0].ID)
	assert.Equal(t, int64(1), expenses[1].ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestExpenseRepository_Update(t *testing.T) {
	t.Run("partial update keeps untouched columns", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		fileKey := "uploads/123-receipt.png"
		now := time.Now()
		mockDB.ExpectQuery("UPDATE expenses").
			WithArgs(int64(1), testUserID, (*string)(nil), (*int64)(nil), &fileKey).
			WillReturnRows(pgxmock.NewRows(expenseColumns()).
				AddRow(int64(1), testUserID, "Lunch", int64(1250), &fileKey, now, now))

		expense, err := repo.Update(context.Background(), testUserID, 1, domain.ExpenseUpdate{FileKey: &fileKey})
		require.NoError(t, err)

		assert.Equal(t, "Lunch", expense.Title)
		require.NotNil(t, expense.FileKey)
		assert.Equal(t, fileKey, *expense.FileKey)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		title := "Dinner"
		mockDB.ExpectQuery("UPDATE expenses").
			WithArgs(int64(42), testUserID, &title, (*int64)(nil), (*string)(nil)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), testUserID, 42, domain.ExpenseUpdate{Title: &title})
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
	})
}

func TestExpenseRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		mockDB.ExpectExec("DELETE FROM expenses").
			WithArgs(int64(1), testUserID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(context.Background(), testUserID, 1)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		mockDB.ExpectExec("DELETE FROM expenses").
			WithArgs(int64(1), testUserID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), testUserID, 1)
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mockDB := createTestRepository(t)

		mockDB.ExpectExec("DELETE FROM expenses").
			WithArgs(int64(1), testUserID).
			WillReturnError(errors.New("connection reset"))

		err := repo.Delete(context.Background(), testUserID, 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrExpenseNotFound)
	})
}
