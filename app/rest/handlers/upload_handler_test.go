package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/app/domain"
	"expense-tracker/app/utils/validator"
)

func newUploadHandler(t *testing.T, usecase *fakeUploadUsecase) *UploadHandler {
	t.Helper()
	return NewUploadHandler(usecase, validator.New(), testLogger(t))
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSign_ReturnsGrant(t *testing.T) {
	usecase := &fakeUploadUsecase{grant: &domain.UploadGrant{
		UploadURL: "https://bucket.s3.example.com/uploads/1700000000123-receipt.png?sig=abc",
		Key:       "uploads/1700000000123-receipt.png",
	}}
	h := newUploadHandler(t, usecase)

	e := echo.New()
	c, rec := postJSON(e, "/api/upload/sign", `{"filename":"receipt.png","type":"image/png"}`)

	require.NoError(t, h.Sign(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var grant domain.UploadGrant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grant))
	assert.Equal(t, "uploads/1700000000123-receipt.png", grant.Key)
	assert.NotEmpty(t, grant.UploadURL)
	assert.Equal(t, "receipt.png", usecase.lastName)
}

func TestSign_MissingFilenameIsBadRequest(t *testing.T) {
	h := newUploadHandler(t, &fakeUploadUsecase{})

	e := echo.New()
	c, _ := postJSON(e, "/api/upload/sign", `{"type":"image/png"}`)

	err := h.Sign(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSign_SignerOutageIsBadGateway(t *testing.T) {
	usecase := &fakeUploadUsecase{
		signErr: domain.NewSigningError("put", "uploads/1-r.png", assert.AnError),
	}
	h := newUploadHandler(t, usecase)

	e := echo.New()
	c, _ := postJSON(e, "/api/upload/sign", `{"filename":"r.png","type":"image/png"}`)

	err := h.Sign(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)
}

func TestSignedURL_MintsReadURL(t *testing.T) {
	usecase := &fakeUploadUsecase{readURL: "https://bucket.s3.example.com/uploads/1700000000123-receipt.png?sig=read"}
	h := newUploadHandler(t, usecase)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/upload/signedUrl/uploads/1700000000123-receipt.png", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/upload/signedUrl/*")
	c.SetParamNames("*")
	c.SetParamValues("uploads/1700000000123-receipt.png")

	require.NoError(t, h.SignedURL(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uploads/1700000000123-receipt.png", usecase.lastKey)
	assert.Contains(t, rec.Body.String(), "sig=read")
}

func TestSignedURL_DecodesEncodedKey(t *testing.T) {
	usecase := &fakeUploadUsecase{readURL: "https://example.com/signed"}
	h := newUploadHandler(t, usecase)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/upload/signedUrl/uploads%2F1700000000123-receipt.png", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/upload/signedUrl/*")
	c.SetParamNames("*")
	c.SetParamValues("uploads%2F1700000000123-receipt.png")

	require.NoError(t, h.SignedURL(c))

	assert.Equal(t, "uploads/1700000000123-receipt.png", usecase.lastKey)
}

func TestSignedURL_RejectsForeignKey(t *testing.T) {
	usecase := &fakeUploadUsecase{readErr: domain.ErrInvalidFileKey}
	h := newUploadHandler(t, usecase)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/upload/signedUrl/secrets/backup.tar", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/upload/signedUrl/*")
	c.SetParamNames("*")
	c.SetParamValues("secrets/backup.tar")

	err := h.SignedURL(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
