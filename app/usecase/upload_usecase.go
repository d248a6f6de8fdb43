package usecase

import (
	"context"
	"log/slog"
	"time"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// UploadUseCase implements the mint side of the delegated-upload
// protocol. Nothing is persisted here: an abandoned grant simply expires
// at the object store.
type UploadUseCase struct {
	signer port.ObjectSigner
	logger *slog.Logger

	// now is a seam for key-format tests
	now func() time.Time
}

// NewUploadUseCase creates a new UploadUseCase instance
func NewUploadUseCase(signer port.ObjectSigner, logger *slog.Logger) *UploadUseCase {
	return &UploadUseCase{
		signer: signer,
		logger: logger.With("component", "upload_usecase"),
		now:    time.Now,
	}
}

// Sign derives a storage key from the upload time and filename and mints
// a short-lived write capability scoped to that key and content type.
func (uc *UploadUseCase) Sign(ctx context.Context, filename, contentType string) (*domain.UploadGrant, error) {
	key := domain.NewFileKey(uc.now(), filename)

	uploadURL, err := uc.signer.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("upload grant minted", "key", key, "content_type", contentType)
	return &domain.UploadGrant{UploadURL: uploadURL, Key: key}, nil
}

// ReadURL mints a read capability for a previously issued key. The key
// must have the exact format this service mints; existence of the object
// behind it is not checked.
func (uc *UploadUseCase) ReadURL(ctx context.Context, fileKey string) (string, error) {
	if !domain.ValidFileKey(fileKey) {
		return "", domain.ErrInvalidFileKey
	}
	return uc.signer.PresignGet(ctx, fileKey)
}
