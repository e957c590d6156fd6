package repo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AttachmentStore минимальный контракт объектного хранилища вложений.
type AttachmentStore interface {
	// IssueUploadURL выдаёт ограниченную по времени подписанную ссылку на загрузку (PUT).
	// Ничего не сохраняет.
	IssueUploadURL(ctx context.Context, attachmentID string) (string, error)

	// BuildReadURL строит публичную ссылку на чтение. Чистая функция от конфигурации и id.
	BuildReadURL(attachmentID string) string
}

// AttachmentConfig настройки бакета вложений.
type AttachmentConfig struct {
	Bucket        string
	Region        string
	Endpoint      string // S3-совместимое хранилище (minio и т.п.), пусто для AWS
	URLExpiration time.Duration

	AccessKeyID     string
	SecretAccessKey string
}

// Validate проверяет, что все обязательные поля заданы.
func (c AttachmentConfig) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("attachments bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("attachments region is required"))
	}
	if c.URLExpiration <= 0 {
		errs = append(errs, fmt.Errorf("signed url expiration must be positive, got %s", c.URLExpiration))
	}
	if c.Endpoint != "" {
		if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid attachments endpoint %q", c.Endpoint))
		}
	}
	return errors.Join(errs...)
}

type s3Store struct {
	presigner *s3.PresignClient
	cfg       AttachmentConfig
}

// NewS3AttachmentStore создаёт хранилище вложений поверх готового клиента S3.
func NewS3AttachmentStore(client *s3.Client, cfg AttachmentConfig) (AttachmentStore, error) {
	if client == nil {
		return nil, errors.New("nil s3 client")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &s3Store{presigner: s3.NewPresignClient(client), cfg: cfg}, nil
}

// NewS3Client собирает клиента S3 из цепочки учётных данных AWS по умолчанию.
// Статические ключи из конфигурации имеют приоритет.
func NewS3Client(ctx context.Context, cfg AttachmentConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, s3Options(cfg)), nil
}

func s3Options(cfg AttachmentConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}
}

func (s *s3Store) IssueUploadURL(ctx context.Context, attachmentID string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(attachmentID),
	}, s3.WithPresignExpires(s.cfg.URLExpiration))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", attachmentID, err)
	}
	return req.URL, nil
}

func (s *s3Store) BuildReadURL(attachmentID string) string {
	key := url.PathEscape(attachmentID)
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return "https://" + s.cfg.Bucket + ".s3.amazonaws.com/" + key
}
