package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"camGateway/internal/config"
	"camGateway/internal/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage stores image binaries in an S3-compatible bucket with anonymous
// read access. Object keys are namespaced per device:
// <folder>/<deviceID>/<uuid>.jpg.
type Storage struct {
	client     *minio.Client
	bucket     string
	folder     string
	publicBase string
}

func New(cfg *config.Storage) (*Storage, error) {
	const op = "storage.minio.New"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = client.SetBucketPolicy(ctx, cfg.Bucket, publicReadPolicy(cfg.Bucket)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		client:     client,
		bucket:     cfg.Bucket,
		folder:     strings.Trim(cfg.Folder, "/"),
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

// UploadImage stores the raw image bytes under the device's namespace and
// returns the public URL plus object metadata. Dimensions are decoded locally;
// a payload that does not decode as an image is still stored, with zero
// dimensions.
func (s *Storage) UploadImage(ctx context.Context, deviceID string, data []byte) (*models.UploadResult, error) {
	const op = "storage.minio.UploadImage"

	key := fmt.Sprintf("%s/%s/%s.jpg", s.folder, deviceID, uuid.New())

	var width, height int
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		bounds := img.Bounds()
		width = bounds.Dx()
		height = bounds.Dy()
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.UploadResult{
		URL:      s.publicBase + "/" + key,
		PublicID: key,
		Width:    width,
		Height:   height,
		Bytes:    int64(len(data)),
	}, nil
}

// publicReadPolicy is an S3 bucket policy allowing anonymous GET on all
// objects, so stored image URLs are browser-accessible.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
