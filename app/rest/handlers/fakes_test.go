package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"expense-tracker/app/domain"
	"expense-tracker/app/driver/cookie"
	"expense-tracker/app/port"
	"expense-tracker/app/utils/logger"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	l, err := logger.NewWithWriter("error", io.Discard)
	require.NoError(t, err)
	return l
}

func testSessions(c echo.Context) port.SessionStore {
	return cookie.New(c, false)
}

type fakeGateway struct {
	loginURL    string
	loginErr    error
	callbackErr error
	logoutURL   string
	identity    *domain.Identity
	identityErr error
}

func (f *fakeGateway) Login(ctx context.Context, sess port.SessionStore) (string, error) {
	return f.loginURL, f.loginErr
}

func (f *fakeGateway) Callback(ctx context.Context, sess port.SessionStore, requestURL *url.URL) error {
	return f.callbackErr
}

func (f *fakeGateway) Logout(ctx context.Context, sess port.SessionStore) (string, error) {
	return f.logoutURL, nil
}

func (f *fakeGateway) CurrentIdentity(ctx context.Context, sess port.SessionStore) (*domain.Identity, error) {
	return f.identity, f.identityErr
}

type fakeUploadUsecase struct {
	grant    *domain.UploadGrant
	signErr  error
	readURL  string
	readErr  error
	lastKey  string
	lastName string
}

func (f *fakeUploadUsecase) Sign(ctx context.Context, filename, contentType string) (*domain.UploadGrant, error) {
	f.lastName = filename
	return f.grant, f.signErr
}

func (f *fakeUploadUsecase) ReadURL(ctx context.Context, fileKey string) (string, error) {
	f.lastKey = fileKey
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.readURL, nil
}

type fakeExpenseUsecase struct {
	expenses   []*domain.Expense
	expense    *domain.Expense
	fileURL    string
	err        error
	lastUpdate domain.ExpenseUpdate
	deleted    []int64
}

func (f *fakeExpenseUsecase) Create(ctx context.Context, userID, title string, amount int64) (*domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Expense{ID: 1, UserID: userID, Title: title, Amount: amount}, nil
}

func (f *fakeExpenseUsecase) Get(ctx context.Context, userID string, id int64) (*domain.Expense, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.expense, f.fileURL, nil
}

func (f *fakeExpenseUsecase) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	return f.expenses, f.err
}

func (f *fakeExpenseUsecase) Update(ctx context.Context, userID string, id int64, update domain.ExpenseUpdate) (*domain.Expense, string, error) {
	f.lastUpdate = update
	if f.err != nil {
		return nil, "", f.err
	}
	return f.expense, f.fileURL, nil
}

func (f *fakeExpenseUsecase) Delete(ctx context.Context, userID string, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
