package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"pinboard/internal/config"
	"pinboard/internal/errs"
)

// Storage — минимальный контракт объектного хранилища: положить объект
// и удалить пачку ключей. Остальное (таймауты, ретраи) — забота клиента S3.
type Storage interface {
	Upload(ctx context.Context, opts *UploadOpts) error
	DeleteObjects(ctx context.Context, keys []string) error
}

type UploadOpts struct {
	Key           string
	Body          io.Reader
	ContentType   string
	ContentLength int64
	CacheControl  string
}

type s3Storage struct {
	client *s3.Client
	bucket string
	logger *zap.SugaredLogger
}

// New создаёт шлюз к S3-совместимому хранилищу по статическим ключам из конфига.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Storage, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.StorageKeyID, cfg.StorageKeySecret, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		}
	})

	return &s3Storage{client: client, bucket: cfg.StorageBucket, logger: logger}, nil
}

func (s *s3Storage) Upload(ctx context.Context, opts *UploadOpts) error {
	if opts.CacheControl == "" {
		opts.CacheControl = "max-age=31536000"
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(opts.Key),
		Body:          opts.Body,
		ContentType:   aws.String(opts.ContentType),
		CacheControl:  aws.String(opts.CacheControl),
		ContentLength: aws.Int64(opts.ContentLength),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Errorw("storage: upload failed", "key", opts.Key, "error", err)
		return errs.ErrInternalServerError
	}
	return nil
}

func (s *s3Storage) DeleteObjects(ctx context.Context, keys []string) error {
	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	}
	if _, err := s.client.DeleteObjects(ctx, input); err != nil {
		s.logger.Errorw("storage: delete failed", "keys", len(keys), "error", err)
		return errs.ErrInternalServerError
	}
	return nil
}
