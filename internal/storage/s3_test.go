package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/translation-relay/internal/domain"
)

type fakeS3 struct {
	objects map[string]string
	getErr  error
	putErr  error
	puts    []*s3.PutObjectInput
	putBody []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, in)
	f.putBody = append(f.putBody, string(body))
	return &s3.PutObjectOutput{}, nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

type brokenBodyS3 struct{ fakeS3 }

func (b *brokenBodyS3) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(failingReader{})}, nil
}

func TestS3Store_Get(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"in/requests/r1.json": `{"TextList":["hello"]}`}}
	store := New(fake)

	body, err := store.Get(context.Background(), "in", "requests/r1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"TextList":["hello"]}`, string(body))
}

func TestS3Store_Get_Errors(t *testing.T) {
	tests := []struct {
		name     string
		client   S3API
		expected domain.ErrorKind
	}{
		{
			name:     "missing object",
			client:   &fakeS3{objects: map[string]string{}},
			expected: domain.KindObjectNotFound,
		},
		{
			name:     "access denied",
			client:   &fakeS3{getErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}},
			expected: domain.KindAccessDenied,
		},
		{
			name:     "generic not found code",
			client:   &fakeS3{getErr: &smithy.GenericAPIError{Code: "NotFound"}},
			expected: domain.KindObjectNotFound,
		},
		{
			name:     "slow down",
			client:   &fakeS3{getErr: &smithy.GenericAPIError{Code: "SlowDown"}},
			expected: domain.KindStorageIO,
		},
		{
			name:     "network error",
			client:   &fakeS3{getErr: errors.New("dial tcp: i/o timeout")},
			expected: domain.KindStorageIO,
		},
		{
			name:     "body read error",
			client:   &brokenBodyS3{},
			expected: domain.KindStorageIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.client).Get(context.Background(), "in", "requests/r1.json")
			require.Error(t, err)
			assert.Equal(t, tt.expected, domain.KindOf(err))
			assert.Equal(t, domain.StageFetch, domain.StageOf(err))
			assert.Contains(t, err.Error(), "s3://in/requests/r1.json")
		})
	}
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := New(fake)

	err := store.Put(context.Background(), "out", "translations/r1.json", []byte(`{"a":"ü"}`), "application/json; charset=utf-8")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	in := fake.puts[0]
	assert.Equal(t, "out", aws.ToString(in.Bucket))
	assert.Equal(t, "translations/r1.json", aws.ToString(in.Key))
	assert.Equal(t, "application/json; charset=utf-8", aws.ToString(in.ContentType))
	assert.Equal(t, int64(len(`{"a":"ü"}`)), aws.ToInt64(in.ContentLength))
	assert.Equal(t, `{"a":"ü"}`, fake.putBody[0])
}

func TestS3Store_Put_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorKind
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, domain.KindAccessDenied},
		{"no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, domain.KindStorageIO},
		{"transport", errors.New("EOF"), domain.KindStorageIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(&fakeS3{putErr: tt.err}).Put(context.Background(), "out", "k", []byte("{}"), "application/json")
			require.Error(t, err)
			assert.Equal(t, tt.expected, domain.KindOf(err))
			assert.Equal(t, domain.StageStore, domain.StageOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
