package models

import "time"

// SavedVideo is a video bookmarked by a user. A user saves a video once.
type SavedVideo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_saved_user_video" json:"user"`
	VideoID   string    `gorm:"column:video_id;size:100;not null;uniqueIndex:idx_saved_user_video" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name.
func (SavedVideo) TableName() string {
	return "saved_videos"
}

// VideoList is a user-curated list of videos.
type VideoList struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"column:user_id;not null;index" json:"user"`
	ListID      string `gorm:"column:list_id;size:100;not null;uniqueIndex" json:"list_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Thumbnail is the storage object key, empty when no thumbnail was uploaded.
	Thumbnail            string    `gorm:"size:255" json:"thumbnail"`
	ThumbnailContentType string    `gorm:"column:thumbnail_content_type;size:100" json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName overrides the table name.
func (VideoList) TableName() string {
	return "video_lists"
}

// ListVideo is one entry of a VideoList.
type ListVideo struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ListID  uint   `gorm:"column:list_id;not null;uniqueIndex:idx_list_video" json:"list"`
	VideoID string `gorm:"column:video_id;size:100;not null;uniqueIndex:idx_list_video" json:"video_id"`
}

// TableName overrides the table name.
func (ListVideo) TableName() string {
	return "list_videos"
}
