package integrity

import (
	"context"
	"fmt"

	"dog-inventory/core/reconcile"
	"dog-inventory/core/storage"
	"dog-inventory/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	source  reconcile.Source
	client  storage.Client
	storage storage.Config
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil when
// the matching integration is not configured.
func NewService(source reconcile.Source, client storage.Client, storageCfg storage.Config, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		source:  source,
		client:  client,
		storage: storageCfg,
		db:      db,
		logger:  logger,
	}
}

// CheckSource reports whether the fleet API answers.
func (s *Service) CheckSource(ctx context.Context) *checks.SourceReport {
	return checks.CheckSource(ctx, s.source)
}

// CheckStorage reports the state of the fact bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return checks.CheckStorage(ctx, s.client, s.storage)
}

// FixStorage creates the fact bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}
	return checks.FixStorage(ctx, s.client, s.storage, s.logger)
}

// CheckDatabase compares the run-history schema with the model.
func (s *Service) CheckDatabase() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckAll runs every check and collects the results by name. Failing
// checks are reported inline.
func (s *Service) CheckAll(ctx context.Context) (map[string]any, bool) {
	report := make(map[string]any)
	healthy := true

	src := s.CheckSource(ctx)
	report["source"] = src
	if src.Status != checks.StatusOK {
		healthy = false
	}

	if st, err := s.CheckStorage(ctx); err != nil {
		report["storage"] = map[string]any{"status": checks.StatusError, "error": err.Error()}
		healthy = false
	} else {
		report["storage"] = st
		if st.Status != checks.StatusOK {
			healthy = false
		}
	}

	if s.db != nil {
		if db, err := s.CheckDatabase(); err != nil {
			report["database"] = map[string]any{"status": checks.StatusError, "error": err.Error()}
			healthy = false
		} else {
			report["database"] = db
			if db.Status != checks.StatusOK {
				healthy = false
			}
		}
	}

	return report, healthy
}
