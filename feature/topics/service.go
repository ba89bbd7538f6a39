package topics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"video-catalog/feature/topics/models"
	videomodels "video-catalog/feature/videos/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a topic or subtopic does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTopicInUse is returned when deleting a topic that videos still reference.
	ErrTopicInUse = errors.New("cannot delete topic: it is referenced by videos")
)

// InputError is a client input problem.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// TopicInput is the body of topic writes. Nil fields are left unchanged on PATCH.
type TopicInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// SubtopicInput is the body of subtopic writes. Nil fields are left unchanged on PATCH.
type SubtopicInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Topic       *uint   `json:"topic"`
}

// Service handles topic and subtopic operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new topics service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func checkName(name *string, partial bool) error {
	if name == nil {
		if partial {
			return nil
		}
		return &InputError{Reason: "name: this field is required"}
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return &InputError{Reason: "name: this field may not be blank"}
	}
	if len(trimmed) > 255 {
		return &InputError{Reason: "name: ensure this field has no more than 255 characters"}
	}
	*name = trimmed
	return nil
}

// ListTopics returns all topics ordered by id.
func (s *Service) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics := []models.Topic{}
	if err := s.db.WithContext(ctx).Order("id").Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// GetTopic returns a topic by id.
func (s *Service) GetTopic(ctx context.Context, id uint) (*models.Topic, error) {
	var t models.Topic
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &t, nil
}

// CreateTopic creates a topic.
func (s *Service) CreateTopic(ctx context.Context, in TopicInput) (*models.Topic, error) {
	if err := checkName(in.Name, false); err != nil {
		return nil, err
	}
	t := &models.Topic{Name: *in.Name, Description: in.Description}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	return t, nil
}

// UpdateTopic replaces (partial false) or patches a topic.
func (s *Service) UpdateTopic(ctx context.Context, id uint, in TopicInput, partial bool) (*models.Topic, error) {
	if err := checkName(in.Name, partial); err != nil {
		return nil, err
	}
	t, err := s.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil || !partial {
		t.Description = in.Description
	}
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}
	return t, nil
}

// DeleteTopic deletes a topic and its subtopics. Topics still used by videos are kept.
func (s *Service) DeleteTopic(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Topic
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get topic: %w", err)
		}

		var videos int64
		if err := tx.Model(&videomodels.Video{}).Where("topic_id = ?", id).Count(&videos).Error; err != nil {
			return fmt.Errorf("failed to count videos: %w", err)
		}
		if videos > 0 {
			return ErrTopicInUse
		}

		if err := tx.Where("topic_id = ?", id).Delete(&models.Subtopic{}).Error; err != nil {
			return fmt.Errorf("failed to delete subtopics: %w", err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("failed to delete topic: %w", err)
		}
		s.logger.Info("Topic deleted", zap.Uint("topic_id", id))
		return nil
	})
}

// ListSubtopics returns subtopics ordered by id, optionally for one topic.
func (s *Service) ListSubtopics(ctx context.Context, topicID *uint) ([]models.Subtopic, error) {
	subtopics := []models.Subtopic{}
	q := s.db.WithContext(ctx).Order("id")
	if topicID != nil {
		q = q.Where("topic_id = ?", *topicID)
	}
	if err := q.Find(&subtopics).Error; err != nil {
		return nil, fmt.Errorf("failed to list subtopics: %w", err)
	}
	return subtopics, nil
}

// GetSubtopic returns a subtopic by id.
func (s *Service) GetSubtopic(ctx context.Context, id uint) (*models.Subtopic, error) {
	var st models.Subtopic
	err := s.db.WithContext(ctx).First(&st, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subtopic: %w", err)
	}
	return &st, nil
}

func (s *Service) checkTopic(ctx context.Context, topicID *uint, partial bool) error {
	if topicID == nil {
		if partial {
			return nil
		}
		return &InputError{Reason: "topic: this field is required"}
	}
	if _, err := s.GetTopic(ctx, *topicID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &InputError{Reason: fmt.Sprintf("topic: invalid pk %q, object does not exist", fmt.Sprint(*topicID))}
		}
		return err
	}
	return nil
}

// CreateSubtopic creates a subtopic under an existing topic.
func (s *Service) CreateSubtopic(ctx context.Context, in SubtopicInput) (*models.Subtopic, error) {
	if err := checkName(in.Name, false); err != nil {
		return nil, err
	}
	if err := s.checkTopic(ctx, in.Topic, false); err != nil {
		return nil, err
	}
	st := &models.Subtopic{Name: *in.Name, Description: in.Description, TopicID: *in.Topic}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return nil, fmt.Errorf("failed to create subtopic: %w", err)
	}
	return st, nil
}

// UpdateSubtopic replaces (partial false) or patches a subtopic.
// Moving a subtopic to another topic clears it from videos of the old topic.
func (s *Service) UpdateSubtopic(ctx context.Context, id uint, in SubtopicInput, partial bool) (*models.Subtopic, error) {
	if err := checkName(in.Name, partial); err != nil {
		return nil, err
	}
	if err := s.checkTopic(ctx, in.Topic, partial); err != nil {
		return nil, err
	}
	st, err := s.GetSubtopic(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := in.Topic != nil && *in.Topic != st.TopicID
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.Description != nil || !partial {
		st.Description = in.Description
	}
	if in.Topic != nil {
		st.TopicID = *in.Topic
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(st).Error; err != nil {
			return fmt.Errorf("failed to update subtopic: %w", err)
		}
		if moved {
			return clearSubtopic(tx, id, st.TopicID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteSubtopic deletes a subtopic and clears it from videos.
func (s *Service) DeleteSubtopic(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Subtopic{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete subtopic: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return clearSubtopic(tx, id, 0)
	})
}

// clearSubtopic nulls videos.subtopic_id for id, except on videos of keepTopic.
func clearSubtopic(tx *gorm.DB, id, keepTopic uint) error {
	q := tx.Model(&videomodels.Video{}).Where("subtopic_id = ?", id)
	if keepTopic != 0 {
		q = q.Where("topic_id <> ?", keepTopic)
	}
	if err := q.Update("subtopic_id", nil).Error; err != nil {
		return fmt.Errorf("failed to clear subtopic from videos: %w", err)
	}
	return nil
}
