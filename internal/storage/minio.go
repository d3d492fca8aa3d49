// Package storage mirrors student photos into a MinIO bucket and serves
// them back through short-lived presigned URLs. Photos stay embedded in the
// student document as base64 text; the bucket copy is what download links
// point at.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const presignExpiry = 10 * time.Minute

type PhotoStore struct {
	client *minio.Client
	bucket string
}

// NewPhotoStore connects to MinIO and makes sure the photo bucket exists.
func NewPhotoStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*PhotoStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}
	return &PhotoStore{client: client, bucket: bucket}, nil
}

func objectName(studentID string) string {
	return "students/" + studentID
}

// Save decodes a base64 photo payload (with or without a data-URI prefix)
// and writes it to the bucket under the student's id.
func (p *PhotoStore) Save(ctx context.Context, studentID, encoded string) error {
	if idx := strings.Index(encoded, "base64,"); idx >= 0 {
		encoded = encoded[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode photo: %w", err)
	}

	_, err = p.client.PutObject(ctx, p.bucket, objectName(studentID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return fmt.Errorf("store photo: %w", err)
	}
	return nil
}

// PresignedURL returns a short-lived download link for a student's photo.
func (p *PhotoStore) PresignedURL(ctx context.Context, studentID string) (string, error) {
	url, err := p.client.PresignedGetObject(ctx, p.bucket, objectName(studentID), presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign photo: %w", err)
	}
	return url.String(), nil
}

// Remove deletes a student's photo object; used when the student is deleted.
func (p *PhotoStore) Remove(ctx context.Context, studentID string) error {
	return p.client.RemoveObject(ctx, p.bucket, objectName(studentID), minio.RemoveObjectOptions{})
}
