package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func allowedImageTypes() []string {
	types := make([]string, 0, len(imageExtensions))
	for t := range imageExtensions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ObjectPutter is the part of the S3 client the image store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore uploads incident cover images to an S3 bucket.
type ImageStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	maxSize int64
	logger  zerolog.Logger
}

func NewImageStore(client ObjectPutter, cfg config.StorageConfig) *ImageStore {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &ImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		maxSize: cfg.MaxUploadMB << 20,
		logger:  log.With().Str("service", "images").Logger(),
	}
}

// NewS3ImageStore builds an ImageStore backed by the default AWS credential chain.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig) (*ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewImageStore(s3.NewFromConfig(awsCfg), cfg), nil
}

// MaxSize is the largest accepted upload in bytes.
func (s *ImageStore) MaxSize() int64 {
	return s.maxSize
}

// Upload stores an image under a fresh key and returns its public URL.
// The content type is sniffed from the data, not taken from the client.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", errs.NewMalformedPayloadError("image", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", errs.NewMaxBodySizeExceededError(s.maxSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", errs.NewUnsupportedMediaError(contentType, allowedImageTypes())
	}

	key := "covers/" + uuid.NewString() + ext
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("upload failed")
		return "", errs.NewServiceUnavailableError("image storage", err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return s.baseURL + "/" + key, nil
}
