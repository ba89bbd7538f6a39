package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Tags is a list of free-form labels stored as a JSON array column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}

// Video is a catalog entry. VideoID is the external identifier and is unique.
type Video struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	VideoID     string     `gorm:"column:video_id;size:255;not null;uniqueIndex" json:"video_id" validate:"required,max=255"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	TopicID     uint       `gorm:"column:topic_id;not null;index" json:"topic" validate:"required"`
	SubtopicID  *uint      `gorm:"column:subtopic_id;index" json:"subtopic"`
	Description string     `gorm:"type:text" json:"description"`
	Tags        Tags       `gorm:"type:text" json:"tags" validate:"dive,max=64"`
	Duration    string     `gorm:"size:32" json:"duration" validate:"max=32"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt"`
	Likes       int64      `gorm:"not null;default:0" json:"likes" validate:"gte=0"`
	Views       int64      `gorm:"not null;default:0" json:"views" validate:"gte=0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name.
func (Video) TableName() string {
	return "videos"
}
