package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/taskforge/taskforge/internal/config"
)

// deleteBatchSize is the per-request object cap of the S3 DeleteObjects API.
const deleteBatchSize = 1000

// UploadGrant is a time-limited, signed permission to PUT one object. The
// caller must replay Headers on the actual upload so the request matches the
// signature.
type UploadGrant struct {
	Bucket  string            `json:"bucket"`
	Key     string            `json:"key"`
	URL     string            `json:"uploadUrl"`
	Headers map[string]string `json:"headers"`
}

// ObjectStore defines the gateway to the object storage service. No retries
// happen at this level; callers decide what a failed storage call means.
type ObjectStore interface {
	// PresignUpload grants a signed PUT for key, valid for the configured
	// upload window.
	PresignUpload(ctx context.Context, key, contentType string, size int64) (*UploadGrant, error)

	// PresignDownload grants a signed GET for key, valid for the configured
	// download window.
	PresignDownload(ctx context.Context, key string) (string, error)

	// DeleteOne removes a single object. Deleting a missing key is not an
	// error.
	DeleteOne(ctx context.Context, key string) error

	// DeleteMany removes objects in batches of at most 1000 keys. When a
	// batch reports per-object errors the whole call fails with the first
	// one; batches already issued are not rolled back.
	DeleteMany(ctx context.Context, keys []string) error
}

// Narrow views of the S3 clients, so tests can substitute fakes.
type s3API interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements ObjectStore for S3-compatible storage.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Store struct {
	client      s3API
	presign     presignAPI
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// S3Config holds configuration for the S3 gateway
type S3Config struct {
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	Endpoint    string // Optional: for S3-compatible services
	UploadTTL   time.Duration
	DownloadTTL time.Duration
}

// New creates the object store gateway from app config
func New(c *cfg.Config) (ObjectStore, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Store(S3Config{
		Region:      c.S3Region,
		Bucket:      c.S3Bucket,
		AccessKey:   c.S3AccessKey,
		SecretKey:   c.S3SecretKey,
		Endpoint:    c.S3Endpoint,
		UploadTTL:   c.S3PresignExpiryUpload,
		DownloadTTL: c.S3PresignExpiryDownload,
	})
}

// NewS3Store creates a new S3 gateway instance
func NewS3Store(sc S3Config) (*S3Store, error) {
	ctx := context.Background()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(sc.Region))

	// Add static credentials if provided
	if sc.AccessKey != "" && sc.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if sc.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Store{
		client:      client,
		presign:     s3.NewPresignClient(client),
		bucket:      sc.Bucket,
		uploadTTL:   sc.UploadTTL,
		downloadTTL: sc.DownloadTTL,
	}, nil
}

// PresignUpload grants a signed PUT for key. The size and content type are
// baked into the signature, so the eventual upload has to match them.
func (s *S3Store) PresignUpload(ctx context.Context, key, contentType string, size int64) (*UploadGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(s.uploadTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %q: %w", key, err)
	}

	return &UploadGrant{
		Bucket:  s.bucket,
		Key:     key,
		URL:     req.URL,
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (s *S3Store) PresignDownload(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.downloadTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %q: %w", key, err)
	}

	return req.URL, nil
}

func (s *S3Store) DeleteOne(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q from S3: %w", key, err)
	}

	return nil
}

func (s *S3Store) DeleteMany(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		err := s.deleteBatch(ctx, keys[start:end])
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Store) deleteBatch(ctx context.Context, keys []string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to bulk delete from S3: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %q from S3: %s: %s",
			aws.ToString(first.Key), aws.ToString(first.Code), aws.ToString(first.Message))
	}

	return nil
}
