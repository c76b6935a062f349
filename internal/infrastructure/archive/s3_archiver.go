// Package archive guarda copias de los exports en un bucket S3 (o compatible: R2, MinIO).
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/pkg/config"
)

// PutObjectAPI subconjunto del cliente S3 que usa el archivador.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ report.Archiver = (*S3Archiver)(nil)

// S3Archiver implementa report.Archiver.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
}

// NewS3Archiver construye el cliente desde la configuración. Sin claves estáticas usa la cadena por defecto de AWS.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: cargar configuración AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})
	return NewS3ArchiverWithClient(client, cfg.Bucket), nil
}

// NewS3ArchiverWithClient usa un cliente ya construido (tests).
func NewS3ArchiverWithClient(client PutObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// Archive sube data bajo key.
func (a *S3Archiver) Archive(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("archive: subir %s: %w", key, err)
	}
	return nil
}
