// Package backup copies project database files to an S3-compatible bucket.
package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mesh-intelligence/gwen2d/internal/paths"
)

// ContentType is the media type recorded on uploaded database files.
const ContentType = "application/vnd.sqlite3"

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// timestampLayout names backups so that keys sort chronologically.
const timestampLayout = "20060102T150405Z"

// ErrBucketRequired is returned by New when no bucket is configured.
var ErrBucketRequired = errors.New("backup bucket required")

// Config describes the target bucket. Static credentials are optional; when
// AccessKeyID is empty the default AWS credential chain is used.
type Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	Prefix          string `yaml:"prefix,omitempty"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
	SessionToken    string `yaml:"-"`
}

// Uploader puts database files into a bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// New builds an Uploader. optFns are applied to the S3 client options after
// the ones derived from cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger, optFns ...func(*s3.Options)) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)

	return &Uploader{
		client: s3.NewFromConfig(awsCfg, opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger.With("component", "backup"),
		now:    time.Now,
	}, nil
}

// Key returns the object key for a backup of dbPath taken at t:
// <prefix>/<project>/<UTC timestamp>.db.
func (u *Uploader) Key(dbPath string, t time.Time) string {
	name := paths.ProjectName(dbPath) + "/" + t.UTC().Format(timestampLayout) + paths.DatabaseExt
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload puts the database file at dbPath into the bucket and returns its key.
// The file should not be written to while the upload runs.
func (u *Uploader) Upload(ctx context.Context, dbPath string) (string, error) {
	f, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer f.Close()

	key := u.Key(dbPath, u.now())
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to s3://%s/%s: %w", dbPath, u.bucket, key, err)
	}
	u.logger.Info("backup uploaded", "bucket", u.bucket, "key", key)
	return key, nil
}
