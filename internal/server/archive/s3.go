// Package archive writes JSON snapshots of analysis results to S3-compatible
// object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/portfoliorisk/internal/server/config"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/shopspring/decimal"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectPutter is the part of *s3.Client the archiver uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client ObjectPutter
	bucket string
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// NewS3ArchiverFromConfig builds an archiver using static credentials. A
// non-empty S3BaseEndpoint selects a custom endpoint (MinIO) with path-style
// addressing.
func NewS3ArchiverFromConfig(ctx context.Context, c *sc.Config) (*S3Archiver, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Archiver(client, c.S3Bucket), nil
}

type snapshot struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	AnalysisDate string          `json:"analysisDate"`
	Alpha        decimal.Decimal `json:"alpha"`
	BetaMkt      decimal.Decimal `json:"betaMkt"`
	BetaSmb      decimal.Decimal `json:"betaSmb"`
	BetaHml      decimal.Decimal `json:"betaHml"`
	BetaRmw      decimal.Decimal `json:"betaRmw"`
	BetaCma      decimal.Decimal `json:"betaCma"`
	RSquared     decimal.Decimal `json:"rSquared"`
}

// Key returns the object key of a result:
// analyses/<user>/<yyyy>/<mm>/<dd>/<id>.json.
func Key(r *models.AnalysisResult) string {
	d := r.AnalysisDate.UTC()
	return fmt.Sprintf("analyses/%s/%04d/%02d/%02d/%s.json", r.UserID, d.Year(), int(d.Month()), d.Day(), r.ID)
}

// Archive stores the persisted fields of r under Key(r). T-statistics are
// not written.
func (a *S3Archiver) Archive(ctx context.Context, r *models.AnalysisResult) error {
	body, err := json.Marshal(snapshot{
		ID:           r.ID,
		UserID:       r.UserID,
		AnalysisDate: r.AnalysisDate.UTC().Format(time.RFC3339),
		Alpha:        r.Alpha,
		BetaMkt:      r.BetaMkt,
		BetaSmb:      r.BetaSmb,
		BetaHml:      r.BetaHml,
		BetaRmw:      r.BetaRmw,
		BetaCma:      r.BetaCma,
		RSquared:     r.RSquared,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := Key(r)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
