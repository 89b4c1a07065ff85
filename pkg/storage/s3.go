package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxPhotoBytes = 5 << 20
	photoPrefix   = "members"
)

var (
	ErrInvalidImage  = errors.New("photo is not a supported image")
	ErrPhotoTooLarge = errors.New("photo exceeds the size limit")
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Photo is an uploaded image. StoreID is the object key and is what Delete takes.
type Photo struct {
	URL     string
	StoreID string
}

type PhotoStore struct {
	client    s3Client
	bucket    string
	publicURL string
}

func NewPhotoStore(cfg config.StorageConfig) *PhotoStore {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: cfg.Endpoint != "",
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return newPhotoStore(s3.New(opts), cfg.Bucket, publicURL)
}

func newPhotoStore(client s3Client, bucket, publicURL string) *PhotoStore {
	return &PhotoStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// DecodePhoto accepts raw base64 or a data URL and returns the image bytes
// with their detected MIME type.
func DecodePhoto(encoded string) ([]byte, *mimetype.MIME, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		_, payload, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, nil, ErrInvalidImage
		}
		encoded = payload
	}

	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxPhotoBytes+3 {
		return nil, nil, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}
	if len(data) > MaxPhotoBytes {
		return nil, nil, ErrPhotoTooLarge
	}

	mime := mimetype.Detect(data)
	if !allowedPhotoTypes[mime.String()] {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidImage, mime.String())
	}
	return data, mime, nil
}

// Upload stores the photo under ownerKey, which must not carry personal data.
func (p *PhotoStore) Upload(ctx context.Context, encoded, ownerKey string) (*Photo, error) {
	data, mime, err := DecodePhoto(encoded)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s%s", photoPrefix, ownerKey, uuid.NewString(), mime.Extension())
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mime.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	return &Photo{
		URL:     p.publicURL + "/" + key,
		StoreID: key,
	}, nil
}

func (p *PhotoStore) Delete(ctx context.Context, storeID string) error {
	if storeID == "" {
		return nil
	}

	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(storeID),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
