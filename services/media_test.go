package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/errs"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (p *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if p.err != nil {
		return nil, p.err
	}
	body, _ := io.ReadAll(in.Body)
	p.inputs = append(p.inputs, in)
	p.bodies = append(p.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadStoresImages(t *testing.T) {
	putter := &fakePutter{}
	store := NewImageStore(putter, config.StorageConfig{
		Bucket:        "covers-bucket",
		Region:        "us-east-1",
		PublicBaseURL: "https://cdn.example.com/",
		MaxUploadMB:   1,
	})

	url, err := store.Upload(context.Background(), bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/covers/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}
	if len(putter.inputs) != 1 {
		t.Fatalf("PutObject called %d times", len(putter.inputs))
	}
	in := putter.inputs[0]
	if aws.ToString(in.Bucket) != "covers-bucket" || aws.ToString(in.ContentType) != "image/png" {
		t.Errorf("input = bucket %q type %q", aws.ToString(in.Bucket), aws.ToString(in.ContentType))
	}
	if !bytes.Equal(putter.bodies[0], pngHeader) {
		t.Error("body not forwarded")
	}
}

func TestUploadDefaultsToBucketURL(t *testing.T) {
	store := NewImageStore(&fakePutter{}, config.StorageConfig{Bucket: "b", Region: "eu-west-1", MaxUploadMB: 1})
	url, err := store.Upload(context.Background(), bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "https://b.s3.eu-west-1.amazonaws.com/covers/") {
		t.Errorf("url = %q", url)
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		putErr error
		status int
	}{
		{"plain text", []byte("hello world"), nil, http.StatusUnsupportedMediaType},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, 1<<20)...), nil, http.StatusRequestEntityTooLarge},
		{"storage down", pngHeader, errors.New("connection refused"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewImageStore(&fakePutter{err: tt.putErr}, config.StorageConfig{Bucket: "b", MaxUploadMB: 1})
			_, err := store.Upload(context.Background(), bytes.NewReader(tt.body))
			var apiErr *errs.ApiErr
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
				t.Fatalf("expected %d, got %v", tt.status, err)
			}
		})
	}
}
