package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"video-catalog/core/storage"
	"video-catalog/feature/library/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ThumbnailPrefix is where list thumbnails live in the bucket.
const ThumbnailPrefix = "thumbnails/lists/"

var (
	// ErrNotFound is returned for missing rows and rows owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySaved is returned when a user saves the same video twice.
	ErrAlreadySaved = errors.New("video already saved")
	// ErrAlreadyInList is returned when a video is added to a list twice.
	ErrAlreadyInList = errors.New("video already in list")
	// ErrNoStorage is returned for thumbnail operations without a storage client.
	ErrNoStorage = errors.New("storage is not configured")
)

// InputError is a client input problem.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// ListInput is the body of list writes. Nil fields are left unchanged on PATCH.
type ListInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Service handles saved videos and video lists.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new library service. client may be nil, which
// disables thumbnails.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{db: db, client: client, bucket: bucket, logger: logger}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func requiredVideoID(videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", &InputError{Reason: "video_id: this field is required"}
	}
	if len(videoID) > 100 {
		return "", &InputError{Reason: "video_id: ensure this field has no more than 100 characters"}
	}
	return videoID, nil
}

// ListSaved returns the user's saved videos, newest last.
func (s *Service) ListSaved(ctx context.Context, userID uint) ([]models.SavedVideo, error) {
	saved := []models.SavedVideo{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved videos: %w", err)
	}
	return saved, nil
}

// SaveVideo bookmarks videoID for the user.
func (s *Service) SaveVideo(ctx context.Context, userID uint, videoID string) (*models.SavedVideo, error) {
	videoID, err := requiredVideoID(videoID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.SavedVideo{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check saved video: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadySaved
	}

	saved := &models.SavedVideo{UserID: userID, VideoID: videoID}
	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySaved
		}
		return nil, fmt.Errorf("failed to save video: %w", err)
	}
	return saved, nil
}

// GetSaved returns one of the user's saved videos.
func (s *Service) GetSaved(ctx context.Context, userID, id uint) (*models.SavedVideo, error) {
	var saved models.SavedVideo
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&saved).Error; err != nil {
		return nil, notFound(err, "saved video")
	}
	return &saved, nil
}

// DeleteSaved removes one of the user's saved videos.
func (s *Service) DeleteSaved(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.SavedVideo{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete saved video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLists returns the user's lists.
func (s *Service) ListLists(ctx context.Context, userID uint) ([]models.VideoList, error) {
	lists := []models.VideoList{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list video lists: %w", err)
	}
	return lists, nil
}

func checkTitle(title *string, partial bool) error {
	if title == nil {
		if partial {
			return nil
		}
		return &InputError{Reason: "title: this field is required"}
	}
	*title = strings.TrimSpace(*title)
	if *title == "" {
		return &InputError{Reason: "title: this field may not be blank"}
	}
	if len(*title) > 100 {
		return &InputError{Reason: "title: ensure this field has no more than 100 characters"}
	}
	return nil
}

// CreateList creates a list with a generated list_id.
func (s *Service) CreateList(ctx context.Context, userID uint, in ListInput) (*models.VideoList, error) {
	if err := checkTitle(in.Title, false); err != nil {
		return nil, err
	}
	list := &models.VideoList{
		UserID: userID,
		ListID: uuid.NewString(),
		Title:  *in.Title,
	}
	if in.Description != nil {
		list.Description = *in.Description
	}
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

// GetList returns one of the user's lists by list_id.
func (s *Service) GetList(ctx context.Context, userID uint, listID string) (*models.VideoList, error) {
	var list models.VideoList
	if err := s.db.WithContext(ctx).Where("list_id = ? AND user_id = ?", listID, userID).First(&list).Error; err != nil {
		return nil, notFound(err, "list")
	}
	return &list, nil
}

// UpdateList replaces (partial false) or patches a list's title and description.
func (s *Service) UpdateList(ctx context.Context, userID uint, listID string, in ListInput, partial bool) (*models.VideoList, error) {
	if err := checkTitle(in.Title, partial); err != nil {
		return nil, err
	}
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		list.Title = *in.Title
	}
	if in.Description != nil {
		list.Description = *in.Description
	} else if !partial {
		list.Description = ""
	}
	if err := s.db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	return list, nil
}

// DeleteList removes a list, its entries and its thumbnail.
func (s *Service) DeleteList(ctx context.Context, userID uint, listID string) error {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.ListVideo{}).Error; err != nil {
			return fmt.Errorf("failed to delete list entries: %w", err)
		}
		if err := tx.Delete(list).Error; err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if list.Thumbnail != "" && s.client != nil {
		if err := s.client.RemoveObject(ctx, s.bucket, list.Thumbnail, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("Failed to remove list thumbnail",
				zap.String("list_id", list.ListID),
				zap.String("object", list.Thumbnail),
				zap.Error(err))
		}
	}
	return nil
}

// ListVideos returns the entries of one of the user's lists.
func (s *Service) ListVideos(ctx context.Context, userID uint, listID string) ([]models.ListVideo, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	entries := []models.ListVideo{}
	if err := s.db.WithContext(ctx).Where("list_id = ?", list.ID).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// AddVideo appends videoID to one of the user's lists.
func (s *Service) AddVideo(ctx context.Context, userID uint, listID, videoID string) (*models.ListVideo, error) {
	videoID, err := requiredVideoID(videoID)
	if err != nil {
		return nil, err
	}
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	entry := &models.ListVideo{ListID: list.ID, VideoID: videoID}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInList
		}
		return nil, fmt.Errorf("failed to add video to list: %w", err)
	}
	return entry, nil
}

// RemoveVideo removes videoID from one of the user's lists.
func (s *Service) RemoveVideo(ctx context.Context, userID uint, listID, videoID string) error {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("list_id = ? AND video_id = ?", list.ID, videoID).Delete(&models.ListVideo{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove video from list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetThumbnail uploads r as the list's thumbnail, replacing any previous one.
func (s *Service) SetThumbnail(ctx context.Context, userID uint, listID string, r io.Reader, size int64, contentType string) (*models.VideoList, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	if size <= 0 {
		return nil, &InputError{Reason: "thumbnail: the submitted file is empty"}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &InputError{Reason: "thumbnail: upload a valid image"}
	}
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	key := ThumbnailPrefix + list.ListID
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	list.Thumbnail = key
	list.ThumbnailContentType = contentType
	if err := s.db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, fmt.Errorf("failed to record thumbnail: %w", err)
	}
	return list, nil
}

// GetThumbnail opens the list's thumbnail. The caller closes the reader.
func (s *Service) GetThumbnail(ctx context.Context, userID uint, listID string) (io.ReadCloser, string, error) {
	if s.client == nil {
		return nil, "", ErrNoStorage
	}
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, "", err
	}
	if list.Thumbnail == "" {
		return nil, "", ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, list.Thumbnail, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get thumbnail: %w", err)
	}
	return obj, list.ThumbnailContentType, nil
}
