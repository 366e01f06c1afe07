package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"talentscan/internal/config"
)

const uploadTimeout = 2 * time.Minute

// Archive keeps a copy of every accepted resume document.
type Archive interface {
	// Put stores body for candidateID and returns the object location.
	Put(ctx context.Context, candidateID, filename, contentType string, body io.Reader) (string, error)
}

// Noop is used when no bucket is configured.
type Noop struct{}

func (Noop) Put(context.Context, string, string, string, io.Reader) (string, error) {
	return "", nil
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archive writes resumes to resumes/{candidate_id}/{filename} in one bucket.
type S3Archive struct {
	uploader uploader
	bucket   string
	region   string
}

// New returns an S3 archive when cfg names a bucket and Noop otherwise.
func New(ctx context.Context, cfg config.ArchiveConfig, log *zap.Logger) (Archive, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Bucket == "" {
		log.Debug("resume archive disabled")
		return Noop{}, nil
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("AWS credentials incomplete: both AWS_ACCESS_KEY and AWS_SECRET_KEY are required")
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	log.Info("resume archive enabled", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))
	return newS3Archive(manager.NewUploader(s3.NewFromConfig(awsCfg)), cfg.Bucket, cfg.Region), nil
}

func newS3Archive(u uploader, bucket, region string) *S3Archive {
	return &S3Archive{uploader: u, bucket: bucket, region: region}
}

func (a *S3Archive) Put(ctx context.Context, candidateID, filename, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(candidateID, filename)

	ctxUpload, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := a.uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key), nil
}

// ObjectKey builds the object key for a candidate's document. Directory parts of filename are dropped.
func ObjectKey(candidateID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "resume"
	}
	return path.Join("resumes", candidateID, name)
}
