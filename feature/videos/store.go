package videos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"video-catalog/core/reconcile"
	"video-catalog/core/utils"
	"video-catalog/core/validation"
	topicmodels "video-catalog/feature/topics/models"
	"video-catalog/feature/videos/models"

	"gorm.io/gorm"
)

// MissingVideoIDReason is reported for batch entries without a video_id.
const MissingVideoIDReason = "video_id is required"

// Store persists videos. It satisfies reconcile.Store and reconcile.KeyFinder.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new video store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ reconcile.Store[*models.Video]     = (*Store)(nil)
	_ reconcile.KeyFinder[*models.Video] = (*Store)(nil)
)

// Find returns the video with the given video_id.
func (s *Store) Find(ctx context.Context, identifier string) (*models.Video, error) {
	return s.first(ctx, "video_id = ?", identifier)
}

// FindByIdentifier is Find under the KeyFinder name.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*models.Video, error) {
	return s.Find(ctx, identifier)
}

// FindByID returns the video with the given primary key.
func (s *Store) FindByID(ctx context.Context, id uint) (*models.Video, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) first(ctx context.Context, query string, arg any) (*models.Video, error) {
	var v models.Video
	err := s.db.WithContext(ctx).Where(query, arg).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}
	return &v, nil
}

// Update applies fields to the video with the given video_id as a partial update.
func (s *Store) Update(ctx context.Context, identifier string, fields reconcile.Fields) (*models.Video, error) {
	v, err := s.Find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, v, fields, true)
}

// Create inserts a new video. A non-empty identifier wins over fields["video_id"].
func (s *Store) Create(ctx context.Context, identifier string, fields reconcile.Fields) (*models.Video, error) {
	v := &models.Video{Tags: models.Tags{}}
	if err := assign(v, fields); err != nil {
		return nil, err
	}
	if identifier != "" {
		v.VideoID = identifier
	}
	if err := s.check(ctx, v); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Apply writes fields onto v. With partial false every writable field is
// reset first, so omitted fields take their zero value.
func (s *Store) Apply(ctx context.Context, v *models.Video, fields reconcile.Fields, partial bool) (*models.Video, error) {
	updated := *v
	if !partial {
		updated = models.Video{ID: v.ID, CreatedAt: v.CreatedAt, Tags: models.Tags{}}
	}
	if err := assign(&updated, fields); err != nil {
		return nil, err
	}
	if err := s.check(ctx, &updated); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&updated).Select("*").Omit("id", "created_at").Updates(&updated)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, reconcile.ErrNotFound
	}
	return &updated, nil
}

// Delete removes a video by primary key.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Video{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return reconcile.ErrNotFound
	}
	return nil
}

// DeleteAll removes every video and returns how many rows were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Video{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete videos: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// check runs struct rules, then verifies the topic and subtopic references.
func (s *Store) check(ctx context.Context, v *models.Video) error {
	if err := validation.ValidateStruct(v); err != nil {
		return &reconcile.ValidationError{Reason: err.Error()}
	}

	var topics int64
	if err := s.db.WithContext(ctx).Model(&topicmodels.Topic{}).Where("id = ?", v.TopicID).Count(&topics).Error; err != nil {
		return fmt.Errorf("failed to check topic: %w", err)
	}
	if topics == 0 {
		return reconcile.NewValidationError("topic: invalid pk %q, object does not exist", fmt.Sprint(v.TopicID))
	}

	if v.SubtopicID == nil {
		return nil
	}
	var sub topicmodels.Subtopic
	err := s.db.WithContext(ctx).Where("id = ?", *v.SubtopicID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.NewValidationError("subtopic: invalid pk %q, object does not exist", fmt.Sprint(*v.SubtopicID))
	}
	if err != nil {
		return fmt.Errorf("failed to check subtopic: %w", err)
	}
	if sub.TopicID != v.TopicID {
		return reconcile.NewValidationError("subtopic: subtopic %d does not belong to topic %d", sub.ID, v.TopicID)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return reconcile.NewValidationError("video_id: video with this video_id already exists")
	}
	return fmt.Errorf("failed to save video: %w", err)
}

// assign copies recognised fields onto v. Unknown keys are ignored.
// Type errors for all fields are collected into one ValidationError.
func assign(v *models.Video, fields reconcile.Fields) error {
	var problems []string
	fail := func(field string, err error) {
		problems = append(problems, field+": "+err.Error())
	}

	if raw, ok := fields["video_id"]; ok {
		if s, err := optionalString(raw); err != nil {
			fail("video_id", err)
		} else {
			v.VideoID = strings.TrimSpace(s)
		}
	}
	if raw, ok := fields["title"]; ok {
		if s, err := optionalString(raw); err != nil {
			fail("title", err)
		} else {
			v.Title = s
		}
	}
	if raw, ok := fields["topic"]; ok {
		if raw == nil {
			v.TopicID = 0
		} else if id, err := utils.ParseOptionalUint(raw); err != nil {
			fail("topic", errors.New("incorrect type, expected pk value"))
		} else if id != nil {
			v.TopicID = *id
		}
	}
	if raw, ok := fields["subtopic"]; ok {
		if id, err := utils.ParseOptionalUint(raw); err != nil {
			fail("subtopic", errors.New("incorrect type, expected pk value"))
		} else {
			v.SubtopicID = id
		}
	}
	if raw, ok := fields["description"]; ok {
		if s, err := optionalString(raw); err != nil {
			fail("description", err)
		} else {
			v.Description = s
		}
	}
	if raw, ok := fields["tags"]; ok {
		if tags, err := utils.ParseStringList(raw); err != nil {
			fail("tags", err)
		} else {
			v.Tags = tags
		}
	}
	if raw, ok := fields["duration"]; ok {
		if s, err := optionalString(raw); err != nil {
			fail("duration", err)
		} else {
			v.Duration = s
		}
	}
	if raw, ok := fields["publishedAt"]; ok {
		if raw == nil {
			v.PublishedAt = nil
		} else if t, err := utils.ParseTime(raw); err != nil {
			fail("publishedAt", err)
		} else {
			v.PublishedAt = &t
		}
	}
	if raw, ok := fields["likes"]; ok {
		if n, err := utils.ParseInt(raw); err != nil {
			fail("likes", err)
		} else {
			v.Likes = n
		}
	}
	if raw, ok := fields["views"]; ok {
		if n, err := utils.ParseInt(raw); err != nil {
			fail("views", err)
		} else {
			v.Views = n
		}
	}

	if len(problems) > 0 {
		return &reconcile.ValidationError{Reason: strings.Join(problems, "; ")}
	}
	return nil
}

func optionalString(raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	return utils.ParseString(raw)
}
