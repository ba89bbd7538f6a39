package integrity

import (
	"context"
	"errors"

	"video-catalog/core/storage"
	"video-catalog/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrNoStorage is returned by storage checks when no client is configured.
var ErrNoStorage = errors.New("storage is not configured")

// CheckResult wraps one check's report or error.
type CheckResult struct {
	Status string `json:"status"` // "ok", "failed", "error"
	Error  string `json:"error,omitempty"`
	Report any    `json:"report,omitempty"`
}

// Report is the combined result of all checks.
type Report struct {
	Schema  CheckResult `json:"schema"`
	Storage CheckResult `json:"storage"`
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	models []any
	logger *zap.Logger
}

// NewService creates a new integrity service. models are the schema the
// database is checked against.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, models ...any) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		models: models,
		logger: logger,
	}
}

// CheckSchema compares the registered models against the database.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	return checks.CheckSchema(ctx, s.db, s.models...)
}

// CheckStorage reports the bucket and missing prefixes.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates whatever report lists as missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	if s.client == nil {
		return ErrNoStorage
	}
	return checks.FixStorage(ctx, s.client, report, s.logger)
}

// RunAll runs every check concurrently. Check failures are recorded in the
// report rather than returned.
func (s *Service) RunAll(ctx context.Context) *Report {
	report := &Report{}
	var g errgroup.Group

	g.Go(func() error {
		schema, err := s.CheckSchema(ctx)
		report.Schema = result(schema, schema != nil && schema.Matched, err)
		return nil
	})
	g.Go(func() error {
		store, err := s.CheckStorage(ctx)
		report.Storage = result(store, store != nil && store.OK(), err)
		return nil
	})

	_ = g.Wait()
	return report
}

func result[T any](report *T, ok bool, err error) CheckResult {
	switch {
	case err != nil:
		return CheckResult{Status: "error", Error: err.Error()}
	case ok:
		return CheckResult{Status: "ok", Report: report}
	default:
		return CheckResult{Status: "failed", Report: report}
	}
}
