package s3aws

import (
	"bytes"
	"context"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/redis"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const presignExpiry = 3 * 24 * time.Hour

type S3Config struct {
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	// Endpoint points the client at an S3-compatible store (minio, localstack).
	Endpoint string
}

type S3Client struct {
	Client     s3iface.S3API
	BucketName string
	ctx        context.Context
	redis      redis.IRedis
}

type Is3 interface {
	GetBucketName() string
	UploadFile(ctx context.Context, key string, fileBytes []byte, contentType string) error
	GetPresignedURL(key string) (string, error)
}

func newSession(cfg S3Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	return session.NewSession(awsCfg)
}

func NewS3Client(ctx context.Context, cfg S3Config, bucketName string, rds redis.IRedis) (*S3Client, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	s3Client := &S3Client{
		Client:     s3.New(sess),
		BucketName: bucketName,
		ctx:        ctx,
		redis:      rds,
	}

	exists, err := CheckBucketExists(ctx, s3Client)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := CreateBucket(ctx, s3Client); err != nil {
			return nil, err
		}
	}

	return s3Client, nil
}

func CheckBucketExists(ctx context.Context, client *S3Client) (bool, error) {
	_, err := client.Client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(client.BucketName),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchBucket, "NotFound":
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", client.BucketName, err)
	}

	return true, nil
}

func CreateBucket(ctx context.Context, client *S3Client) error {
	logger.Info.Printf("Creating bucket: %s", client.BucketName)
	_, err := client.Client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(client.BucketName),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", client.BucketName, err)
	}
	return nil
}

func (s *S3Client) GetBucketName() string {
	return s.BucketName
}

func (s *S3Client) UploadFile(ctx context.Context, key string, fileBytes []byte, contentType string) error {
	if contentType == "" {
		contentType = getContentTypeFromKey(key)
	}

	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return nil
}

// GetPresignedURL signs a GET for key and caches the URL in redis for its lifetime.
func (s *S3Client) GetPresignedURL(key string) (string, error) {
	cacheKey := fmt.Sprintf("s3:%s:%s", s.BucketName, key)
	if s.redis != nil {
		var cached string
		found, err := redis.GetJSON(s.redis, cacheKey, &cached)
		if err == nil && found && strings.HasPrefix(cached, "http") {
			return cached, nil
		}
	}

	req, _ := s.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket:                     aws.String(s.BucketName),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String(getContentTypeFromKey(key)),
		ResponseContentDisposition: aws.String("inline"),
	})

	urlStr, err := req.Presign(presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if s.redis != nil {
		// Expire the cache entry before the signature does.
		if err := s.redis.Set(cacheKey, urlStr, presignExpiry-time.Hour); err != nil {
			logger.Warning.Printf("failed to cache presigned URL for %s: %v", key, err)
		}
	}

	return urlStr, nil
}

func getContentTypeFromKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".html":
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}
