package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // S3-compatible endpoint (MinIO); empty means AWS
	AccessKey string // empty means the default credential chain
	SecretKey string
	PublicURL string // CDN base URL; empty derives one from bucket/endpoint
}

// S3Store keeps assets in an S3 bucket.
type S3Store struct {
	client  objectAPI
	presign presignAPI
	bucket  string
	baseURL string
}

// NewS3Store builds the AWS client from opts.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, s3.NewPresignClient(client), opts), nil
}

func newS3Store(client objectAPI, presign presignAPI, opts S3Options) *S3Store {
	return &S3Store{
		client:  client,
		presign: presign,
		bucket:  opts.Bucket,
		baseURL: publicBaseURL(opts),
	}
}

func publicBaseURL(opts S3Options) string {
	switch {
	case opts.PublicURL != "":
		return strings.TrimRight(opts.PublicURL, "/")
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
}

func (s *S3Store) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Put(ctx context.Context, obj Object) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(obj.Key),
		Body:        bytes.NewReader(obj.Body),
		ContentType: aws.String(obj.ContentType),
	}
	if obj.CacheControl != "" {
		in.CacheControl = aws.String(obj.CacheControl)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put %s: %w", obj.Key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath()
}
