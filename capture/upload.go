package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client the Uploader uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts finished capture files into an S3 bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// NewUploader creates an Uploader storing objects in bucket under prefix.
func NewUploader(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// NewS3Client creates an S3 client for region. An empty endpoint uses the AWS default, any
// other endpoint is addressed path style, as S3 compatible stores expect.
func NewS3Client(region, endpoint, accessKey, secretKey string) *s3.Client {
	opts := s3.Options{Region: region}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	if accessKey != "" {
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
				Source:          "photon",
			}, nil
		})
	}
	return s3.New(opts)
}

// Key returns the object key the file at name is stored under.
func (u *Uploader) Key(name string) string {
	return path.Join(u.prefix, filepath.Base(name))
}

// Upload puts the capture file at name into the bucket and returns its key.
func (u *Uploader) Upload(ctx context.Context, name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	key := u.Key(name)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"capture-version": fmt.Sprint(Version),
			"upload-time":     time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		u.logger.Error("failed to upload capture", "key", key, "err", err)
		return "", fmt.Errorf("capture: upload %s: %w", key, err)
	}
	u.logger.Info("uploaded capture", "bucket", u.bucket, "key", key, "size", info.Size())
	return key, nil
}
