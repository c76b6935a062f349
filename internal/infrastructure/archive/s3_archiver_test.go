package archive_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/internal/infrastructure/archive"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestArchive_SubeObjeto(t *testing.T) {
	fake := &fakeS3{}
	a := archive.NewS3ArchiverWithClient(fake, "exports")

	err := a.Archive(context.Background(), "reports/2024-05-02/Report_all_1.xlsx", "application/pdf", []byte("doc"))
	require.NoError(t, err)

	assert.Equal(t, "exports", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "reports/2024-05-02/Report_all_1.xlsx", aws.ToString(fake.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.in.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(fake.in.ContentLength))
	assert.Equal(t, []byte("doc"), fake.body)
}

func TestArchive_ErrorDelCliente(t *testing.T) {
	boom := errors.New("boom")
	a := archive.NewS3ArchiverWithClient(&fakeS3{err: boom}, "exports")

	err := a.Archive(context.Background(), "k", "application/pdf", nil)
	assert.ErrorIs(t, err, boom)
}
