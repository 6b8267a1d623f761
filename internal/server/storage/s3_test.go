package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/vkuzmenko/carvault/internal/server/config"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3RootUser:     "admin",
		S3RootPassword: "pw",
		S3Bucket:       "car-images",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000",
	}
}

func TestS3Store_Upload_Success(t *testing.T) {
	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	var gotBucket, gotKey, gotContentType string
	var gotBody []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		gotContentType = aws.ToString(in.ContentType)
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotBody = b
		return &s3.PutObjectOutput{}, nil
	}

	store := NewS3Store(testConfig())

	url, err := store.Upload(context.Background(), ImagePayload{
		FileName:    "civic.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "car-images", gotBucket)
	assert.True(t, strings.HasPrefix(gotKey, "cars/"), "key %q must be grouped under cars/", gotKey)
	assert.True(t, strings.HasSuffix(gotKey, ".jpg"), "key %q must keep the extension", gotKey)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("jpeg-bytes"), gotBody)
	assert.Equal(t, "http://127.0.0.1:9000/car-images/"+gotKey, url)
}

func TestS3Store_Upload_PutError(t *testing.T) {
	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket unavailable")
	}

	store := NewS3Store(testConfig())

	_, err := store.Upload(context.Background(), ImagePayload{FileName: "a.png", Data: []byte("x")})
	require.Error(t, err)
}

func TestRandomStorageKey_Unique(t *testing.T) {
	a := randomStorageKey("a.png")
	b := randomStorageKey("a.png")
	assert.NotEqual(t, a, b)
}
