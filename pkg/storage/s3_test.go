package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	deleted []string
}

func newMockS3Client() *mockS3Client {
	return &mockS3Client{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(input.Key)
	m.objects[key] = data
	m.types[key] = aws.ToString(input.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(input.Key)
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestUpload(t *testing.T) {
	t.Run("data url", func(t *testing.T) {
		client := newMockS3Client()
		store := newPhotoStore(client, "photos", "https://cdn.example.org/")

		photo, err := store.Upload(context.Background(), "data:image/png;base64,"+pngBase64(t), "owner123")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(photo.StoreID, "members/owner123/"))
		assert.True(t, strings.HasSuffix(photo.StoreID, ".png"))
		assert.Equal(t, "https://cdn.example.org/"+photo.StoreID, photo.URL)
		assert.Equal(t, "image/png", client.types[photo.StoreID])
		assert.NotEmpty(t, client.objects[photo.StoreID])
	})

	t.Run("raw base64", func(t *testing.T) {
		client := newMockS3Client()
		store := newPhotoStore(client, "photos", "https://cdn.example.org")

		_, err := store.Upload(context.Background(), pngBase64(t), "owner123")
		require.NoError(t, err)
		assert.Len(t, client.objects, 1)
	})

	t.Run("rejects non images", func(t *testing.T) {
		store := newPhotoStore(newMockS3Client(), "photos", "https://cdn.example.org")

		_, err := store.Upload(context.Background(), base64.StdEncoding.EncodeToString([]byte("hello, world")), "o")
		assert.ErrorIs(t, err, ErrInvalidImage)

		_, err = store.Upload(context.Background(), "data:image/png;base64,***", "o")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("rejects oversized payloads", func(t *testing.T) {
		store := newPhotoStore(newMockS3Client(), "photos", "https://cdn.example.org")
		huge := strings.Repeat("A", (MaxPhotoBytes/3)*4+8192)

		_, err := store.Upload(context.Background(), huge, "o")
		assert.ErrorIs(t, err, ErrPhotoTooLarge)
	})

	t.Run("wraps upload failures", func(t *testing.T) {
		client := newMockS3Client()
		client.putErr = errors.New("AccessDenied")
		store := newPhotoStore(client, "photos", "https://cdn.example.org")

		_, err := store.Upload(context.Background(), pngBase64(t), "o")
		assert.ErrorIs(t, err, client.putErr)
	})
}

func TestDelete(t *testing.T) {
	client := newMockS3Client()
	store := newPhotoStore(client, "photos", "https://cdn.example.org")

	require.NoError(t, store.Delete(context.Background(), "members/o/x.png"))
	require.NoError(t, store.Delete(context.Background(), ""))
	assert.Equal(t, []string{"members/o/x.png"}, client.deleted)
}
