// Package s3 stores downloaded pages as objects in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pagefetch/internal/config"
	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
)

var errObjectClosed = errors.New("object already closed")

// PutObjectAPI is the subset of the S3 client used by Storage.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Storage implements domain.DestinationOpener for S3. Bodies are buffered in
// memory and uploaded on Commit.
type Storage struct {
	api     PutObjectAPI
	bucket  string
	prefix  string
	logger  types.Logger
	metrics types.Metrics
}

// NewStorage creates S3 storage from configuration.
func NewStorage(ctx context.Context, cfg config.S3Config, logger types.Logger, metrics types.Metrics) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("invalid S3 configuration: bucket is required")
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Debug(ctx, "S3 storage initialized", types.Fields{
		"bucket": cfg.Bucket,
		"prefix": cfg.Prefix,
		"region": cfg.Region,
	})

	return NewStorageWithAPI(client, cfg.Bucket, cfg.Prefix, logger, metrics), nil
}

// NewStorageWithAPI creates S3 storage over an existing client.
func NewStorageWithAPI(api PutObjectAPI, bucket, prefix string, logger types.Logger, metrics types.Metrics) *Storage {
	return &Storage{
		api:     api,
		bucket:  bucket,
		prefix:  prefix,
		logger:  logger,
		metrics: metrics,
	}
}

// Open returns an in-memory object that is uploaded to prefix/key on Commit.
func (s *Storage) Open(ctx context.Context, key string) (domain.Destination, error) {
	return &object{storage: s, key: path.Join(s.prefix, key)}, nil
}

type object struct {
	storage *Storage
	key     string

	mu     sync.Mutex
	buf    *bytes.Buffer
	closed bool
}

func (o *object) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, errObjectClosed
	}
	if o.buf == nil {
		o.buf = &bytes.Buffer{}
	}
	return o.buf.Write(p)
}

// Commit uploads the buffered body with PutObject.
func (o *object) Commit(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return errObjectClosed
	}

	var body []byte
	if o.buf != nil {
		body = o.buf.Bytes()
	}

	s := o.storage
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("s3_put", time.Since(start).Seconds())
	}()

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(o.key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(http.DetectContentType(body)),
	})
	if err != nil {
		s.metrics.RecordError("s3_put", "storage")
		return fmt.Errorf("failed to put object %s: %w", o.key, err)
	}

	s.logger.Debug(ctx, "object stored successfully", types.Fields{
		"bucket": s.bucket,
		"key":    o.key,
		"size":   len(body),
	})
	return nil
}

// Close drops the buffer. It is safe to call more than once.
func (o *object) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.buf = nil
	return nil
}

// buildAWSConfig builds AWS configuration from S3 settings
func buildAWSConfig(ctx context.Context, cfg config.S3Config) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	if cfg.MaxRetries > 0 {
		optFns = append(optFns, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries))
	}

	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{
		Timeout: cfg.Timeout,
	}))

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}
