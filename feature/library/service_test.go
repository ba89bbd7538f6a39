package library

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"video-catalog/core/database"
	"video-catalog/core/storage/mocks"
	"video-catalog/feature/library/models"

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
	require.NoError(t, database.Migrate(db, &models.SavedVideo{}, &models.VideoList{}, &models.ListVideo{}))
	return db
}

func ptr(s string) *string {
	return &s
}

func TestSavedVideos(t *testing.T) {
	svc := NewService(setupDB(t), nil, "videos", zap.NewNop())
	ctx := context.Background()

	saved, err := svc.SaveVideo(ctx, 1, " v1 ")
	require.NoError(t, err)
	assert.Equal(t, "v1", saved.VideoID)

	_, err = svc.SaveVideo(ctx, 1, "v1")
	assert.ErrorIs(t, err, ErrAlreadySaved)

	_, err = svc.SaveVideo(ctx, 2, "v1")
	require.NoError(t, err)

	_, err = svc.SaveVideo(ctx, 1, "")
	var inErr *InputError
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, "video_id: this field is required", inErr.Reason)

	mine, err := svc.ListSaved(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.GetSaved(ctx, 2, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSaved(ctx, 2, saved.ID), ErrNotFound)

	require.NoError(t, svc.DeleteSaved(ctx, 1, saved.ID))
	assert.ErrorIs(t, svc.DeleteSaved(ctx, 1, saved.ID), ErrNotFound)
}

func TestLists(t *testing.T) {
	svc := NewService(setupDB(t), nil, "videos", zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateList(ctx, 1, ListInput{})
	assert.EqualError(t, err, "title: this field is required")
	_, err = svc.CreateList(ctx, 1, ListInput{Title: ptr("   ")})
	assert.EqualError(t, err, "title: this field may not be blank")
	_, err = svc.CreateList(ctx, 1, ListInput{Title: ptr(strings.Repeat("x", 101))})
	assert.EqualError(t, err, "title: ensure this field has no more than 100 characters")

	list, err := svc.CreateList(ctx, 1, ListInput{Title: ptr("Favourites"), Description: ptr("best")})
	require.NoError(t, err)
	assert.Len(t, list.ListID, 36)

	_, err = svc.GetList(ctx, 2, list.ListID)
	assert.ErrorIs(t, err, ErrNotFound)

	patched, err := svc.UpdateList(ctx, 1, list.ListID, ListInput{Title: ptr("Faves")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Faves", patched.Title)
	assert.Equal(t, "best", patched.Description)

	_, err = svc.UpdateList(ctx, 1, list.ListID, ListInput{Description: ptr("x")}, false)
	assert.EqualError(t, err, "title: this field is required")

	put, err := svc.UpdateList(ctx, 1, list.ListID, ListInput{Title: ptr("All")}, false)
	require.NoError(t, err)
	assert.Equal(t, "", put.Description)

	_, err = svc.AddVideo(ctx, 1, list.ListID, "v1")
	require.NoError(t, err)
	_, err = svc.AddVideo(ctx, 1, list.ListID, "v1")
	assert.ErrorIs(t, err, ErrAlreadyInList)
	_, err = svc.AddVideo(ctx, 2, list.ListID, "v2")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := svc.ListVideos(ctx, 1, list.ListID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "v1", entries[0].VideoID)

	assert.ErrorIs(t, svc.RemoveVideo(ctx, 1, list.ListID, "v9"), ErrNotFound)
	require.NoError(t, svc.RemoveVideo(ctx, 1, list.ListID, "v1"))

	require.NoError(t, svc.DeleteList(ctx, 1, list.ListID))
	_, err = svc.GetList(ctx, 1, list.ListID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteList_RemovesEntries(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, nil, "videos", zap.NewNop())
	ctx := context.Background()

	list, err := svc.CreateList(ctx, 1, ListInput{Title: ptr("L")})
	require.NoError(t, err)
	_, err = svc.AddVideo(ctx, 1, list.ListID, "v1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, 1, list.ListID))

	var count int64
	require.NoError(t, db.Model(&models.ListVideo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestThumbnail(t *testing.T) {
	client := new(mocks.Client)
	svc := NewService(setupDB(t), client, "videos", zap.NewNop())
	ctx := context.Background()

	list, err := svc.CreateList(ctx, 1, ListInput{Title: ptr("L")})
	require.NoError(t, err)
	key := ThumbnailPrefix + list.ListID

	_, _, err = svc.GetThumbnail(ctx, 1, list.ListID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetThumbnail(ctx, 1, list.ListID, strings.NewReader("x"), 1, "text/plain")
	assert.EqualError(t, err, "thumbnail: upload a valid image")
	_, err = svc.SetThumbnail(ctx, 1, list.ListID, strings.NewReader(""), 0, "image/png")
	assert.EqualError(t, err, "thumbnail: the submitted file is empty")

	client.On("PutObject", mock.Anything, "videos", key, mock.Anything, int64(3),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "image/png" })).
		Return(minio.UploadInfo{}, nil)

	updated, err := svc.SetThumbnail(ctx, 1, list.ListID, strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, key, updated.Thumbnail)

	client.On("GetObject", mock.Anything, "videos", key, mock.Anything).
		Return(io.NopCloser(strings.NewReader("png")), nil)

	obj, contentType, err := svc.GetThumbnail(ctx, 1, list.ListID)
	require.NoError(t, err)
	defer obj.Close()
	raw, _ := io.ReadAll(obj)
	assert.Equal(t, "png", string(raw))
	assert.Equal(t, "image/png", contentType)

	client.On("RemoveObject", mock.Anything, "videos", key, mock.Anything).Return(errors.New("offline"))
	require.NoError(t, svc.DeleteList(ctx, 1, list.ListID))
	client.AssertExpectations(t)
}

func TestThumbnail_NoStorage(t *testing.T) {
	svc := NewService(setupDB(t), nil, "videos", zap.NewNop())

	_, err := svc.SetThumbnail(context.Background(), 1, "x", strings.NewReader("png"), 3, "image/png")
	assert.ErrorIs(t, err, ErrNoStorage)
	_, _, err = svc.GetThumbnail(context.Background(), 1, "x")
	assert.ErrorIs(t, err, ErrNoStorage)
}
