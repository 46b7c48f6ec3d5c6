package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/rtiaw/pkg/log"
)

// UploadTimeout bounds a single S3 upload
const UploadTimeout = 30 * time.Second

// ErrNoBucket is returned by NewS3Sink without a bucket name
var ErrNoBucket = errors.New("output: no S3 bucket configured")

var logger = log.New("output")

// Sink stores an encoded image under a key and reports where it went
type Sink interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// FileSink writes images below a directory on the local file system
type FileSink struct {
	Dir string
}

// Put writes data to Dir/key, creating missing directories
func (f FileSink) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(f.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("output: creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("output: writing %s: %w", path, err)
	}

	logger.Infof("wrote %s (%d bytes)", path, len(data))
	return path, nil
}

// S3Config holds the connection settings for an S3 compatible store
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	ACL       string // Canned ACL for uploads, empty for the bucket default
}

// NewS3Client creates an S3 client with static credentials and path-style
// addressing, which most S3 compatible stores need
func NewS3Client(cfg S3Config) (*s3.S3, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("output: creating S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Sink uploads images as PNG objects into a bucket
type S3Sink struct {
	client s3iface.S3API
	bucket string
	acl    string
}

// NewS3Sink creates a sink uploading through the given client
func NewS3Sink(client s3iface.S3API, bucket, acl string) (*S3Sink, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	return &S3Sink{client: client, bucket: bucket, acl: acl}, nil
}

// Put uploads data as an image/png object and returns its s3:// location
func (s *S3Sink) Put(ctx context.Context, key string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	}
	if s.acl != "" {
		input.ACL = aws.String(s.acl)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("output: uploading %s: %w", key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	logger.Infof("uploaded %s (%d bytes)", location, size)
	return location, nil
}
