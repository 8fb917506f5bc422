package minioimpl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Config *config.Config
	Logger logger.Logger
}

// MinioImpl talks to the S3-compatible bucket holding post images.
type MinioImpl struct {
	client     *minio.Client
	bucket     string
	publicBase string
	Logger     logger.Logger
}

func New(opts Opts) (*MinioImpl, error) {
	cfg := opts.Config.Storage
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	m := &MinioImpl{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg.PublicBaseURL, client.EndpointURL(), cfg.Bucket),
		Logger:     opts.Logger.WithComponent("Storage"),
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.ensureBucket(ctx)
		},
	})

	return m, nil
}

var _ storage.Client = (*MinioImpl)(nil)

func (m *MinioImpl) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio make bucket: %w", err)
		}
		m.Logger.Info("Created bucket", "bucket", m.bucket)
	}
	return nil
}

func publicBase(configured string, endpoint *url.URL, bucket string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return strings.TrimRight(endpoint.String(), "/") + "/" + bucket
}
