package integrity

import (
	"context"
	"errors"
	"testing"

	"video-catalog/core/database"
	"video-catalog/core/storage/mocks"
	"video-catalog/feature/integrity/checks"
	topicModels "video-catalog/feature/topics/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &topicModels.Topic{}))
	return db
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_RunAll(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
	client.On("ListObjects", mock.Anything, "videos", mock.Anything).Return(emptyListing())

	svc := NewService(setupDB(t), client, "videos", zap.NewNop(), &topicModels.Topic{}, &topicModels.Subtopic{})
	report := svc.RunAll(context.Background())

	assert.Equal(t, "failed", report.Schema.Status)
	schema := report.Schema.Report.(*checks.SchemaReport)
	assert.Equal(t, "ok", schema.Tables["topics"].Status)
	assert.True(t, schema.Tables["subtopics"].Missing)

	assert.Equal(t, "failed", report.Storage.Status)
	store := report.Storage.Report.(*checks.StorageReport)
	assert.Equal(t, checks.RequiredPrefixes, store.Missing)
}

func TestService_RunAll_Healthy(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
	client.On("ListObjects", mock.Anything, "videos", mock.Anything).Return(
		func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 1)
			ch <- minio.ObjectInfo{Key: "marker"}
			close(ch)
			return ch
		})

	svc := NewService(setupDB(t), client, "videos", zap.NewNop(), &topicModels.Topic{})
	report := svc.RunAll(context.Background())

	assert.Equal(t, "ok", report.Schema.Status)
	assert.Equal(t, "ok", report.Storage.Status)
}

func TestService_NoStorage(t *testing.T) {
	svc := NewService(setupDB(t), nil, "videos", zap.NewNop(), &topicModels.Topic{})

	_, err := svc.CheckStorage(context.Background())
	assert.ErrorIs(t, err, ErrNoStorage)
	assert.ErrorIs(t, svc.FixStorage(context.Background(), &checks.StorageReport{}), ErrNoStorage)

	report := svc.RunAll(context.Background())
	assert.Equal(t, "ok", report.Schema.Status)
	assert.Equal(t, "error", report.Storage.Status)
	assert.Equal(t, "storage is not configured", report.Storage.Error)
}

func TestService_StorageError(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "videos").Return(false, errors.New("timeout"))

	svc := NewService(setupDB(t), client, "videos", zap.NewNop())
	report := svc.RunAll(context.Background())

	assert.Equal(t, "error", report.Storage.Status)
	assert.Contains(t, report.Storage.Error, "timeout")
}
