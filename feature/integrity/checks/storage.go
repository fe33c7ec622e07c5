package checks

import (
	"context"
	"fmt"

	"dog-inventory/core/storage"

	"go.uber.org/zap"
)

// StorageReport describes the fact snapshot bucket.
type StorageReport struct {
	Bucket string   `json:"bucket"`
	Exists bool     `json:"exists"`
	Facts  []string `json:"facts"`
	Status string   `json:"status"`
}

// CheckStorage verifies the fact bucket exists and lists the stored facts.
func CheckStorage(ctx context.Context, client storage.Client, cfg storage.Config) (*StorageReport, error) {
	report := &StorageReport{Bucket: cfg.Bucket, Facts: []string{}, Status: StatusOK}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		report.Status = StatusMissing
		return report, nil
	}
	report.Exists = true

	facts, err := storage.NewFactStore(client, cfg).ListFacts(ctx)
	if err != nil {
		return nil, err
	}
	if facts != nil {
		report.Facts = facts
	}
	return report, nil
}

// FixStorage creates the fact bucket.
func FixStorage(ctx context.Context, client storage.Client, cfg storage.Config, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
		return err
	}
	logger.Info("Fact bucket ready", zap.String("bucket", cfg.Bucket))
	return nil
}
