package sink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/utils"
)

// MinioConfig holds connection parameters for an S3-compatible store.
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // browser-accessible base URL
	UseSSL     bool
}

// Minio implements core.Sink over a MinIO (or any S3-compatible) backend.
type Minio struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinio creates the client and ensures the bucket exists.  Missing
// credentials fail fast with a config-category error and are never retried.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, apperrors.New(apperrors.CategoryConfig, "minio.new",
			apperrors.ErrMissingCredentials)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "minio.new", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, classify("minio.bucket", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, classify("minio.bucket", err)
		}
	}

	return &Minio{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

// PutObject streams data to the store and returns a normalized ObjectInfo.
func (s *Minio) PutObject(ctx context.Context, data []byte, opts core.PutOptions) (*core.ObjectInfo, error) {
	name, format := objectName(opts)

	if !opts.Overwrite {
		if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err == nil {
			return nil, apperrors.Fatal("minio.put",
				fmt.Errorf("object %q already exists", name))
		}
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, utils.BytesReader(data),
		int64(len(data)), minio.PutObjectOptions{ContentType: contentType(format)})
	if err != nil {
		return nil, classify("minio.put", err)
	}

	w, h := dimensions(data)
	return &core.ObjectInfo{
		SecureURL: s.publicBase + "/" + name,
		PublicID:  name,
		Bytes:     int64(len(data)),
		Width:     w,
		Height:    h,
		Format:    format,
	}, nil
}

// DeleteObject removes a previously stored object by its public ID.
func (s *Minio) DeleteObject(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return classify("minio.delete", err)
	}
	return nil
}

// classify maps store failures onto the retry taxonomy: connection resets and
// 5xx responses are transient; auth and bucket misconfiguration are fatal.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Timeout(op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.Transient(op, err)
	}

	resp := minio.ToErrorResponse(err)
	switch {
	case resp.StatusCode >= 500:
		return apperrors.Transient(op, err)
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return apperrors.Fatal(op, err)
	case resp.StatusCode == 0:
		// No HTTP response at all: transport-level failure.
		return apperrors.Transient(op, err)
	default:
		return apperrors.Fatal(op, err)
	}
}
