package remotestore

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
	"github.com/mkwant/list-to-sheets/internal/remotestore/testutil"
)

func TestS3Store_FindByTitle(t *testing.T) {
	modified := time.Date(2023, 11, 12, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(*testutil.MockS3Client)
		wantID    string
		wantErr   error
	}{
		{
			name: "object with matching title metadata",
			setupMock: func(m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					assert.Equal(t, "lists", aws.ToString(params.Bucket))
					return &s3.ListObjectsV2Output{
						Contents: []awstypes.Object{
							{Key: aws.String("archive/old.xlsx")},
							{Key: aws.String("bowielist_v2.xlsx")},
						},
					}, nil
				}
				m.HeadObjectFunc = func(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
					if aws.ToString(params.Key) == "bowielist_v2.xlsx" {
						return &s3.HeadObjectOutput{
							Metadata:     map[string]string{"title": "bowielist"},
							LastModified: aws.Time(modified),
						}, nil
					}
					return &s3.HeadObjectOutput{Metadata: map[string]string{"title": "other"}}, nil
				}
			},
			wantID: "bowielist_v2.xlsx",
		},
		{
			name: "no object carries the title",
			setupMock: func(m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return &s3.ListObjectsV2Output{
						Contents: []awstypes.Object{{Key: aws.String("misc.txt")}},
					}, nil
				}
			},
			wantErr: lserrors.ErrNotFound,
		},
		{
			name:      "empty bucket",
			setupMock: func(m *testutil.MockS3Client) {},
			wantErr:   lserrors.ErrNotFound,
		},
		{
			name: "access denied maps to unauthenticated",
			setupMock: func(m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
				}
			},
			wantErr: lserrors.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{}
			tt.setupMock(mock)
			store := NewWithClient(mock, "lists")

			obj, err := store.FindByTitle(context.Background(), "bowielist")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, obj.ID)
			assert.Equal(t, "bowielist", obj.Title)
			assert.Equal(t, modified, obj.LastModified)
		})
	}
}

func TestS3Store_FindByTitle_Paginates(t *testing.T) {
	mock := &testutil.MockS3Client{}
	mock.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		if params.ContinuationToken == nil {
			return &s3.ListObjectsV2Output{
				Contents:              []awstypes.Object{{Key: aws.String("first.xlsx")}},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("page-2"),
			}, nil
		}
		assert.Equal(t, "page-2", aws.ToString(params.ContinuationToken))
		return &s3.ListObjectsV2Output{
			Contents: []awstypes.Object{{Key: aws.String("second.xlsx")}},
		}, nil
	}
	mock.HeadObjectFunc = func(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		if aws.ToString(params.Key) == "second.xlsx" {
			return &s3.HeadObjectOutput{Metadata: map[string]string{"title": "bowielist"}}, nil
		}
		return &s3.HeadObjectOutput{}, nil
	}

	store := NewWithClient(mock, "lists")
	obj, err := store.FindByTitle(context.Background(), "bowielist")
	require.NoError(t, err)
	assert.Equal(t, "second.xlsx", obj.ID)
	assert.Equal(t, 2, mock.ListObjectsV2Calls)
}

func TestS3Store_Create(t *testing.T) {
	mock := &testutil.MockS3Client{}
	mock.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "lists", aws.ToString(params.Bucket))
		assert.Equal(t, "bowielist.xlsx", aws.ToString(params.Key))
		assert.Equal(t, "bowielist", params.Metadata["title"])
		assert.NotEmpty(t, aws.ToString(params.ContentType))

		body, err := io.ReadAll(params.Body)
		require.NoError(t, err)
		assert.Equal(t, "workbook bytes", string(body))
		return &s3.PutObjectOutput{}, nil
	}

	store := NewWithClient(mock, "lists")
	obj, err := store.Create(context.Background(), "bowielist", "bowielist.xlsx", strings.NewReader("workbook bytes"))
	require.NoError(t, err)
	assert.Equal(t, "bowielist.xlsx", obj.ID)
	assert.Equal(t, "bowielist", obj.Title)
	assert.Equal(t, 1, mock.PutObjectCalls)
}

func TestS3Store_Create_EmptyFilename(t *testing.T) {
	store := NewWithClient(&testutil.MockS3Client{}, "lists")
	_, err := store.Create(context.Background(), "bowielist", "", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, lserrors.ErrInvalidInput)
}

func TestS3Store_Update(t *testing.T) {
	mock := &testutil.MockS3Client{}
	mock.HeadObjectFunc = func(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		assert.Equal(t, "bowielist_v1.xlsx", aws.ToString(params.Key))
		return &s3.HeadObjectOutput{Metadata: map[string]string{"title": "bowielist"}}, nil
	}
	mock.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "bowielist_v1.xlsx", aws.ToString(params.Key),
			"update overwrites the existing key, not the new filename")
		assert.Equal(t, "bowielist", params.Metadata["title"],
			"title metadata is carried forward on overwrite")
		return &s3.PutObjectOutput{}, nil
	}

	store := NewWithClient(mock, "lists")
	obj, err := store.Update(context.Background(), "bowielist_v1.xlsx", strings.NewReader("newer bytes"))
	require.NoError(t, err)
	assert.Equal(t, "bowielist_v1.xlsx", obj.ID)
	assert.Equal(t, 1, mock.PutObjectCalls)
}

func TestS3Store_Update_MissingObject(t *testing.T) {
	mock := &testutil.MockS3Client{}
	mock.HeadObjectFunc = func(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}

	store := NewWithClient(mock, "lists")
	_, err := store.Update(context.Background(), "gone.xlsx", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, lserrors.ErrNotFound)
	assert.Equal(t, 0, mock.PutObjectCalls, "no upload after a failed head")
}

func TestNew_EmptyBucket(t *testing.T) {
	_, err := New(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, lserrors.ErrInvalidInput)
}
