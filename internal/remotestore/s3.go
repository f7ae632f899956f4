package remotestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
	"github.com/mkwant/list-to-sheets/internal/remotestore/s3api"
)

// metadataTitleKey is the object metadata key carrying the
// human-readable title (surfaced by S3 as x-amz-meta-title).
const metadataTitleKey = "title"

// S3Store implements Store against an S3 bucket.
type S3Store struct {
	client s3api.API
	bucket string
}

// New creates an S3Store using the default AWS credential chain.
// A credential chain that cannot be loaded is an authentication
// failure: the caller must not start a sync run without a valid handle.
func New(ctx context.Context, bucket string, opts ...Option) (*S3Store, error) {
	if bucket == "" {
		return nil, lserrors.New("store.new", lserrors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, lserrors.New("store.new", fmt.Errorf("%w: %v", lserrors.ErrUnauthenticated, err))
	}
	if cfg.region != "" {
		awsCfg.Region = cfg.region
	}

	var s3Opts []func(*s3.Options)
	if cfg.endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.endpoint)
		})
	}
	if cfg.forcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.httpClient != nil {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = cfg.httpClient
		})
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: bucket,
	}, nil
}

// NewWithClient creates an S3Store with a custom API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(client s3api.API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// FindByTitle scans the bucket for the object whose title metadata
// matches. The first match in key order wins.
func (s *S3Store) FindByTitle(ctx context.Context, title string) (*StoredObject, error) {
	var continuation *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, lserrors.New("store.find", classify(err)).
				WithSource(s.bucket).
				WithName(title)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, lserrors.New("store.find", classify(err)).
					WithSource(s.bucket).
					WithName(key)
			}
			if head.Metadata[metadataTitleKey] != title {
				continue
			}
			return &StoredObject{
				ID:           key,
				Title:        title,
				LastModified: aws.ToTime(head.LastModified),
			}, nil
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		continuation = page.NextContinuationToken
	}

	return nil, lserrors.New("store.find", lserrors.ErrNotFound).
		WithSource(s.bucket).
		WithName(title)
}

// Create uploads body as a new object keyed by filename and tagged
// with title.
func (s *S3Store) Create(ctx context.Context, title, filename string, body io.Reader) (*StoredObject, error) {
	if filename == "" {
		return nil, lserrors.New("store.create", lserrors.ErrInvalidInput).
			WithSource(s.bucket).
			WithMessage("filename cannot be empty")
	}

	obj, err := s.put(ctx, filename, title, body)
	if err != nil {
		return nil, lserrors.New("store.create", classify(err)).
			WithSource(s.bucket).
			WithName(filename)
	}
	return obj, nil
}

// Update overwrites the object identified by id, carrying its title
// metadata forward.
func (s *S3Store) Update(ctx context.Context, id string, body io.Reader) (*StoredObject, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return nil, lserrors.New("store.update", classify(err)).
			WithSource(s.bucket).
			WithName(id)
	}

	obj, err := s.put(ctx, id, head.Metadata[metadataTitleKey], body)
	if err != nil {
		return nil, lserrors.New("store.update", classify(err)).
			WithSource(s.bucket).
			WithName(id)
	}
	return obj, nil
}

// put uploads body under key with the title metadata set, detecting
// the content type from the payload so xlsx uploads arrive with the
// spreadsheet MIME type instead of application/octet-stream.
func (s *S3Store) put(ctx context.Context, key, title string, body io.Reader) (*StoredObject, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	contentType := mimetype.Detect(data).String()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if title != "" {
		input.Metadata = map[string]string{metadataTitleKey: title}
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, err
	}
	return &StoredObject{
		ID:           key,
		Title:        title,
		LastModified: time.Now(),
	}, nil
}

// classify maps AWS API failures onto the run's sentinel errors while
// keeping the original error text.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
		return fmt.Errorf("%w: %v", lserrors.ErrUnauthenticated, err)
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %v", lserrors.ErrNotFound, err)
	default:
		return err
	}
}
