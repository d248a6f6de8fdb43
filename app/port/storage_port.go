package port

import (
	"context"

	"expense-tracker/app/domain"
)

// ObjectSigner issues time-limited capability URLs for the backing object
// store. Lifetimes are policy constants enforced by the store, not by this
// server's clock.
type ObjectSigner interface {
	// PresignPut mints a short-lived write capability scoped to exactly
	// this key and content type.
	PresignPut(ctx context.Context, key, contentType string) (string, error)

	// PresignGet mints a longer-lived read capability for the key. It does
	// not check that an object exists there.
	PresignGet(ctx context.Context, key string) (string, error)
}

// UploadUsecase is the mint side of the delegated-upload protocol. The
// transfer itself happens client-to-store and never transits this server.
type UploadUsecase interface {
	Sign(ctx context.Context, filename, contentType string) (*domain.UploadGrant, error)
	ReadURL(ctx context.Context, fileKey string) (string, error)
}
