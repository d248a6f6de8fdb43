package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
	"expense-tracker/app/rest/middleware"
	"expense-tracker/app/utils/validator"
)

// ExpenseHandler exposes the expense CRUD surface. Every route sits
// behind the auth guard, so the identity is always present here.
type ExpenseHandler struct {
	usecase   port.ExpenseUsecase
	validator *validator.Validator
	logger    *slog.Logger
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(usecase port.ExpenseUsecase, v *validator.Validator, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		usecase:   usecase,
		validator: v,
		logger:    logger,
	}
}

type createExpenseRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Amount int64  `json:"amount" validate:"gte=0"`
}

type updateExpenseRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Amount  *int64  `json:"amount" validate:"omitempty,gte=0"`
	FileKey *string `json:"fileKey"`
}

type expenseResponse struct {
	*domain.Expense
	FileURL string `json:"fileUrl,omitempty"`
}

// List returns the caller's expenses, newest first.
//
//	GET /api/expenses
func (h *ExpenseHandler) List(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	expenses, err := h.usecase.List(c.Request().Context(), identity.Subject)
	if err != nil {
		h.logger.Error("expense list failed", "user_id", identity.Subject, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string][]*domain.Expense{"expenses": expenses})
}

// Create stores a new expense for the caller.
//
//	POST /api/expenses
func (h *ExpenseHandler) Create(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	var req createExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	expense, err := h.usecase.Create(c.Request().Context(), identity.Subject, req.Title, req.Amount)
	if err != nil {
		h.logger.Error("expense create failed", "user_id", identity.Subject, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// Get returns one expense with a freshly minted read URL when a receipt
// is attached.
//
//	GET /api/expenses/:id
func (h *ExpenseHandler) Get(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	id, err := parseID(c)
	if err != nil {
		return err
	}

	expense, fileURL, err := h.usecase.Get(c.Request().Context(), identity.Subject, id)
	if err != nil {
		h.logger.Warn("expense get failed", "user_id", identity.Subject, "expense_id", id, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]expenseResponse{
		"expense": {Expense: expense, FileURL: fileURL},
	})
}

// Update applies a partial update. This is also the confirmation leg of
// the upload protocol: the client reports the file key it uploaded to,
// and the key is validated by format only.
//
//	PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	update := domain.ExpenseUpdate{
		Title:   req.Title,
		Amount:  req.Amount,
		FileKey: req.FileKey,
	}

	expense, fileURL, err := h.usecase.Update(c.Request().Context(), identity.Subject, id, update)
	if err != nil {
		h.logger.Warn("expense update failed", "user_id", identity.Subject, "expense_id", id, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, expenseResponse{Expense: expense, FileURL: fileURL})
}

// Delete removes one expense.
//
//	DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.usecase.Delete(c.Request().Context(), identity.Subject, id); err != nil {
		h.logger.Warn("expense delete failed", "user_id", identity.Subject, "expense_id", id, "error", err)
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid expense id")
	}
	return id, nil
}
