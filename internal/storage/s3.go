package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/pkg/utils"
)

const (
	s3Scheme        = "s3://"
	defaultRegion   = "us-east-1"
	ediContentType  = "application/edi-x12"
	controlMetadata = "control-number"
)

// ErrS3NotConfigured is returned for s3:// destinations when no S3 client was set up.
var ErrS3NotConfigured = errors.New("s3 delivery is not configured")

// PutObjectAPI is the part of the S3 client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads documents to s3://bucket/key destinations.
type S3Sink struct {
	client     PutObjectAPI
	fileFormat string
}

// NewS3Sink creates an S3Sink. fileFormat names objects whose key ends in "/".
func NewS3Sink(client PutObjectAPI, fileFormat string) *S3Sink {
	return &S3Sink{client: client, fileFormat: fileFormat}
}

// NewS3Client builds an S3 client from the s3 section of config.yaml. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies. Endpoint and path style support MinIO.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Write uploads the document and returns its s3:// URL.
func (s *S3Sink) Write(ctx context.Context, dest string, doc Document) (string, error) {
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return "", err
	}

	control := strconv.Itoa(doc.ControlNumber)
	if key == "" || strings.HasSuffix(key, "/") {
		key += utils.GenerateOutputFileName(s.fileFormat, map[string]string{"control": control})
	} else if path.Ext(key) == "" {
		key += utils.DefaultExtension
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Data),
		ContentType: aws.String(ediContentType),
		Metadata:    map[string]string{controlMetadata: control},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3://%s/%s: %w", bucket, key, err)
	}

	return s3Scheme + bucket + "/" + key, nil
}

// ParseS3URL splits s3://bucket/key. The key may be empty.
func ParseS3URL(dest string) (bucket, key string, err error) {
	if !IsS3URL(dest) {
		return "", "", fmt.Errorf("not an s3 url: %q", dest)
	}
	rest := dest[len(s3Scheme):]
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 url has no bucket: %q", dest)
	}
	return bucket, key, nil
}
