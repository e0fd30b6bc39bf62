package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds configuration for the S3 storage backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Storage implements Client using AWS S3 (or S3-compatible stores like MinIO).
// Object puts are atomic on their own, which satisfies the replace-on-write
// contract without a rename step.
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage creates an S3-backed Client.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Storage) key(kind, id string) string {
	return kind + "/" + id + ".json"
}

func (s *S3Storage) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Storage) PutProfile(ctx context.Context, profileID string, data []byte) error {
	return s.put(ctx, s.key("profiles", profileID), data)
}

func (s *S3Storage) GetProfile(ctx context.Context, profileID string) ([]byte, error) {
	return s.get(ctx, s.key("profiles", profileID))
}

func (s *S3Storage) DeleteProfile(ctx context.Context, profileID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key("profiles", profileID)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", profileID, err)
	}
	return nil
}

func (s *S3Storage) ListProfiles(ctx context.Context) ([]string, error) {
	var ids []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String("profiles/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 list profiles: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			rest := strings.TrimPrefix(key, "profiles/")
			if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".json") {
				continue
			}
			ids = append(ids, strings.TrimSuffix(rest, ".json"))
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}
	return ids, nil
}

func (s *S3Storage) PutBackup(ctx context.Context, backupID string, data []byte) error {
	return s.put(ctx, s.key("profiles/backups", backupID), data)
}

func (s *S3Storage) PutCatalog(ctx context.Context, name string, data []byte) error {
	return s.put(ctx, s.key("catalogs", name), data)
}

func (s *S3Storage) GetCatalog(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, s.key("catalogs", name))
}
