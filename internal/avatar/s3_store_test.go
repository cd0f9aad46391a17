package avatar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput    *s3.PutObjectInput
	deleteInput *s3.DeleteObjectInput
	putErr      error
	deleteErr   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteInput = params
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(client s3API) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    "avatars-bucket",
		publicURL: "https://img.example.com",
	}
}

func TestS3StoreUpload(t *testing.T) {
	fake := &fakeS3{}
	store := newTestStore(fake)

	key, url, err := store.Upload(context.Background(), []byte{0xff, 0xd8, 0xff, 0xe0})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "avatars/"))
	require.Equal(t, "https://img.example.com/"+key, url)

	require.NotNil(t, fake.putInput)
	require.Equal(t, "avatars-bucket", *fake.putInput.Bucket)
	require.Equal(t, key, *fake.putInput.Key)
	require.NotEmpty(t, *fake.putInput.ContentType)
}

func TestS3StoreUpload_EmptyData(t *testing.T) {
	store := newTestStore(&fakeS3{})

	_, _, err := store.Upload(context.Background(), nil)
	require.Error(t, err)
}

func TestS3StoreUpload_ClientError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("bucket down")}
	store := newTestStore(fake)

	_, _, err := store.Upload(context.Background(), []byte{0x01})
	require.ErrorContains(t, err, "bucket down")
}

func TestS3StoreDelete(t *testing.T) {
	fake := &fakeS3{}
	store := newTestStore(fake)

	require.NoError(t, store.Delete(context.Background(), "avatars/abc"))
	require.NotNil(t, fake.deleteInput)
	require.Equal(t, "avatars/abc", *fake.deleteInput.Key)

	require.Error(t, store.Delete(context.Background(), " "))
}

func TestDisabledStore(t *testing.T) {
	store := NewDisabledStore("avatar store not configured")

	_, _, err := store.Upload(context.Background(), []byte{0x01})
	require.ErrorContains(t, err, "not configured")
	require.Error(t, store.Delete(context.Background(), "avatars/abc"))
}
