package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/domain"
	"expense-tracker/app/utils/validator"
)

// toHTTPError maps domain errors onto HTTP responses. Internal detail
// (signing failures, SQL errors) is logged by the caller and never
// leaked into response bodies.
func toHTTPError(err error) error {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr)
	}

	var exchangeErr *domain.AuthExchangeError
	if errors.As(err, &exchangeErr) {
		return echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	}

	var signingErr *domain.SigningError
	if errors.As(err, &signingErr) {
		return echo.NewHTTPError(http.StatusBadGateway, "storage unavailable")
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrExpenseNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrExpenseNotFound.Error())
	case errors.Is(err, domain.ErrInvalidFileKey):
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidFileKey.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidInput.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
