// Package s3 wraps the object store's capability-URL issuer. The service
// never proxies object bytes; it only mints presigned PUT and GET URLs
// scoped to a single key.
package s3

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"expense-tracker/app/config"
	"expense-tracker/app/domain"
)

// presignAPI is the slice of *s3.PresignClient the presigner needs;
// a seam for tests.
type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Presigner implements port.ObjectSigner on top of the AWS SDK presign
// client. Write capabilities are short-lived (put TTL), read capabilities
// longer-lived (get TTL); both are fixed policy from configuration.
type Presigner struct {
	client presignAPI
	bucket string
	putTTL time.Duration
	getTTL time.Duration
	logger *slog.Logger
}

// NewPresigner builds the S3 client once at startup from configuration.
// Static credentials and a base endpoint override support MinIO-style
// deployments; with both empty the default AWS chain applies.
func NewPresigner(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object store presigner configured",
		"bucket", cfg.S3Bucket,
		"region", cfg.S3Region,
		"upload_ttl", cfg.UploadURLTTL,
		"download_ttl", cfg.DownloadURLTTL)

	return &Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.S3Bucket,
		putTTL: cfg.UploadURLTTL,
		getTTL: cfg.DownloadURLTTL,
		logger: logger.With("component", "s3_presigner"),
	}, nil
}

// PresignPut mints a write capability scoped to exactly this key and
// content type.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.putTTL))
	if err != nil {
		p.logger.Error("presign put failed", "key", key, "error", err)
		return "", domain.NewSigningError("put", key, err)
	}
	return req.URL, nil
}

// PresignGet mints a read capability for the key. Object existence is not
// checked; a URL for a missing object simply 404s at the store.
func (p *Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.getTTL))
	if err != nil {
		p.logger.Error("presign get failed", "key", key, "error", err)
		return "", domain.NewSigningError("get", key, err)
	}
	return req.URL, nil
}
