package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/port"
	"expense-tracker/app/utils/validator"
)

// UploadHandler mints the capability URLs for the delegated-upload
// protocol. The file bytes themselves never pass through this server.
type UploadHandler struct {
	usecase   port.UploadUsecase
	validator *validator.Validator
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(usecase port.UploadUsecase, v *validator.Validator, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		usecase:   usecase,
		validator: v,
		logger:    logger,
	}
}

type signRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"type" validate:"required,max=255"`
}

// Sign mints a short-lived write URL plus the storage key the client
// must echo back on confirmation.
//
//	POST /api/upload/sign
func (h *UploadHandler) Sign(c echo.Context) error {
	var req signRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	grant, err := h.usecase.Sign(c.Request().Context(), req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error("upload sign failed", "filename", req.Filename, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, grant)
}

// SignedURL mints a fresh read URL for a stored file key. The key arrives
// in the path and may be URL-encoded; both encodings are accepted.
//
//	GET /api/upload/signedUrl/*
func (h *UploadHandler) SignedURL(c echo.Context) error {
	raw := c.Param("*")
	key, err := url.PathUnescape(raw)
	if err != nil {
		key = raw
	}

	readURL, err := h.usecase.ReadURL(c.Request().Context(), key)
	if err != nil {
		h.logger.Warn("read url mint rejected", "key", key, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, signedURLResponse{URL: readURL})
}

type signedURLResponse struct {
	URL string `json:"url"`
}
