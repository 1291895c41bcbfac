package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/portfoliorisk/internal/server/config"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ID:           "r-1",
		UserID:       "u-1",
		AnalysisDate: time.Date(2025, 6, 5, 9, 30, 0, 0, time.UTC),
		Alpha:        decimal.RequireFromString("0.001"),
		BetaMkt:      decimal.RequireFromString("1.1"),
		RSquared:     decimal.RequireFromString("0.9"),
		TStats:       map[string]decimal.Decimal{"betaMkt": decimal.RequireFromString("12.3")},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "analyses/u-1/2025/06/05/r-1.json", Key(sampleResult()))
}

func TestArchive(t *testing.T) {
	p := &fakePutter{}
	a := NewS3Archiver(p, "results")

	require.NoError(t, a.Archive(context.Background(), sampleResult()))

	require.NotNil(t, p.in)
	assert.Equal(t, "results", aws.ToString(p.in.Bucket))
	assert.Equal(t, "analyses/u-1/2025/06/05/r-1.json", aws.ToString(p.in.Key))
	assert.Equal(t, "application/json", aws.ToString(p.in.ContentType))

	var got map[string]any
	require.NoError(t, json.Unmarshal(p.body, &got))
	assert.Equal(t, "r-1", got["id"])
	assert.Equal(t, "2025-06-05T09:30:00Z", got["analysisDate"])
	assert.Equal(t, "1.1", got["betaMkt"])
	assert.NotContains(t, got, "tStats")
}

func TestArchive_PutError(t *testing.T) {
	a := NewS3Archiver(&fakePutter{err: errors.New("access denied")}, "results")

	err := a.Archive(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyses/u-1/2025/06/05/r-1.json")
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3ArchiverFromConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	cfg := &sc.Config{
		S3Region:       "eu-west-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "results",
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(c aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	a, err := NewS3ArchiverFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "results", a.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3ArchiverFromConfig(context.Background(), cfg)
	assert.ErrorContains(t, err, "load-fail")
}
