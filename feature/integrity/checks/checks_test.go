package checks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dog-inventory/core/audit"
	"dog-inventory/core/database"
	"dog-inventory/core/reconcile"
	"dog-inventory/core/storage"
	"dog-inventory/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "checks.db"),
	})
	require.NoError(t, err)
	return db
}

func TestCheckSource(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		src := &reconcile.MemorySource{
			Hosts: []map[string]any{
				{"name": "h1", "active": "active"},
				{"name": "h2", "active": "retired"},
			},
			Groups: []map[string]any{{"name": "web"}},
		}
		report := CheckSource(context.Background(), src)
		assert.Equal(t, StatusOK, report.Status)
		assert.Equal(t, 2, report.Hosts)
		assert.Equal(t, 1, report.ActiveHosts)
		assert.Equal(t, 1, report.Groups)
	})

	t.Run("Unreachable", func(t *testing.T) {
		report := CheckSource(context.Background(), &reconcile.MemorySource{Err: errors.New("connection refused")})
		assert.Equal(t, StatusError, report.Status)
		assert.Contains(t, report.Error, "connection refused")
	})
}

func TestCheckStorage(t *testing.T) {
	cfg := storage.Config{Bucket: "facts-bucket", Prefix: "facts"}

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "facts-bucket").Return(false, nil)

		report, err := CheckStorage(context.Background(), mockClient, cfg)
		require.NoError(t, err)
		assert.Equal(t, StatusMissing, report.Status)
		assert.False(t, report.Exists)
	})

	t.Run("Lists Facts", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "facts-bucket").Return(true, nil)
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "facts/prod.json"}
		ch <- minio.ObjectInfo{Key: "facts/readme.txt"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "facts-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		report, err := CheckStorage(context.Background(), mockClient, cfg)
		require.NoError(t, err)
		assert.Equal(t, StatusOK, report.Status)
		assert.Equal(t, []string{"prod"}, report.Facts)
	})

	t.Run("Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "facts-bucket").Return(false, errors.New("access denied"))

		_, err := CheckStorage(context.Background(), mockClient, cfg)
		assert.Error(t, err)
	})
}

func TestFixStorage(t *testing.T) {
	cfg := storage.Config{Bucket: "facts-bucket", Region: "us-east-1"}
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "facts-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "facts-bucket", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	require.NoError(t, FixStorage(context.Background(), mockClient, cfg, zap.NewNop()))
	mockClient.AssertExpectations(t)
}

func TestCheckSchema(t *testing.T) {
	t.Run("NilDB", func(t *testing.T) {
		report, err := CheckSchema(nil)
		assert.Error(t, err)
		assert.Nil(t, report)
	})

	t.Run("Missing Table", func(t *testing.T) {
		report, err := CheckSchema(setupSQLite(t))
		require.NoError(t, err)
		assert.Equal(t, StatusMissing, report.Status)
		assert.Equal(t, "inventory_runs", report.Table)
	})

	t.Run("Migrated", func(t *testing.T) {
		db := setupSQLite(t)
		require.NoError(t, audit.NewRecorder(db, zap.NewNop()).Migrate(context.Background()))

		report, err := CheckSchema(db)
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, StatusOK, report.Status)
		assert.Empty(t, report.MissingColumns)
	})

	t.Run("Drifted", func(t *testing.T) {
		db := setupSQLite(t)
		require.NoError(t, db.Exec("CREATE TABLE inventory_runs (id TEXT PRIMARY KEY, run_id TEXT)").Error)

		report, err := CheckSchema(db)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, StatusError, report.Status)
		assert.Contains(t, report.MissingColumns, "started_at")
		assert.Contains(t, report.TypeMismatches, "id: expected varchar(36), got text")
	})
}
