package checks

import (
	"bytes"
	"context"
	"fmt"

	"video-catalog/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RequiredPrefixes lists the prefixes that must exist in the bucket.
var RequiredPrefixes = []string{"thumbnails/", "imports/", "exports/"}

// StorageReport is the result of a storage check.
type StorageReport struct {
	Bucket       string   `json:"bucket"`
	BucketExists bool     `json:"bucket_exists"`
	Missing      []string `json:"missing"`
}

// OK reports whether the bucket and every required prefix exist.
func (r *StorageReport) OK() bool {
	return r.BucketExists && len(r.Missing) == 0
}

// CheckStorage reports whether the bucket exists and which required prefixes are missing.
// A missing bucket is reported, not returned as an error.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		report.Missing = append(report.Missing, RequiredPrefixes...)
		return report, nil
	}
	report.BucketExists = true

	for _, prefix := range RequiredPrefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
			}
			found = true
			break
		}

		if !found {
			report.Missing = append(report.Missing, prefix)
		}
	}

	return report, nil
}

// FixStorage creates the bucket if needed and a marker object for every missing prefix.
func FixStorage(ctx context.Context, client storage.Client, report *StorageReport, logger *zap.Logger) error {
	if !report.BucketExists {
		if err := client.MakeBucket(ctx, report.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", report.Bucket, err)
		}
		logger.Info("Created bucket", zap.String("bucket", report.Bucket))
		report.BucketExists = true
	}

	for _, prefix := range report.Missing {
		_, err := client.PutObject(ctx, report.Bucket, prefix, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create prefix", zap.String("prefix", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing prefix", zap.String("prefix", prefix))
	}
	report.Missing = []string{}
	return nil
}
