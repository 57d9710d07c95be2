package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"coupon-service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// FolderQRCodes is the key prefix under which rendered QR images are stored.
const FolderQRCodes = "qrcodes"

// NewS3Client builds an S3 client. Static credentials from cfg are used when
// present, otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
		logger.Info().Str("region", cfg.Region).Msg("S3 client using configured credentials")
	} else {
		logger.Warn().Str("region", cfg.Region).Msg("S3 client using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}

// Publisher stores rendered QR images and hands out time-limited links to them.
type Publisher interface {
	// Publish uploads a PNG under key.
	Publish(ctx context.Context, key string, png []byte) error

	// PresignURL returns a GET URL for key valid for the configured duration.
	PresignURL(ctx context.Context, key string) (string, error)
}

// QRCodeKey returns the object key for a coupon's QR image: qrcodes/{code}.png.
func QRCodeKey(prefix, couponCode string) string {
	return path.Join(prefix, FolderQRCodes, couponCode+".png")
}

type s3Publisher struct {
	uploader *manager.Uploader
	presign  *s3.PresignClient
	bucket   string
	expires  time.Duration
	logger   zerolog.Logger
}

// NewS3Publisher creates a publisher writing to bucket.
func NewS3Publisher(client *s3.Client, bucket string, expires time.Duration, logger zerolog.Logger) Publisher {
	return newS3Publisher(client, s3.NewPresignClient(client), bucket, expires, logger)
}

func newS3Publisher(uploadClient manager.UploadAPIClient, presign *s3.PresignClient, bucket string, expires time.Duration, logger zerolog.Logger) *s3Publisher {
	return &s3Publisher{
		uploader: manager.NewUploader(uploadClient, func(u *manager.Uploader) {
			u.Concurrency = 1
		}),
		presign: presign,
		bucket:  bucket,
		expires: expires,
		logger:  logger.With().Str("component", "s3-publisher").Str("bucket", bucket).Logger(),
	}
}

func (p *s3Publisher) Publish(ctx context.Context, key string, png []byte) error {
	_, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("failed to upload qr image")
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Debug().Str("key", key).Int("bytes", len(png)).Msg("qr image uploaded")
	return nil
}

func (p *s3Publisher) PresignURL(ctx context.Context, key string) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = p.expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}
