package minioimpl

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/orgball2608/community-feed-bot/internal/storage"
)

// Upload stores bytes under the given object key.
func (m *MinioImpl) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return fmt.Errorf("%s: %w", key, storage.ErrObjectExists)
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("minio stat %s: %w", key, err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}

	m.Logger.Info("Uploaded object", "key", key, "size", len(data), "content_type", contentType)
	return nil
}

func (m *MinioImpl) PublicURL(key string) string {
	return m.publicBase + "/" + key
}

func (m *MinioImpl) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	var objects []storage.Object
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("minio list %s: %w", prefix, info.Err)
		}
		objects = append(objects, storage.Object{Key: info.Key, LastModified: info.LastModified})
	}
	return objects, nil
}

// Remove deletes an object.
func (m *MinioImpl) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
