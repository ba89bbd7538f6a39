package models

// Topic groups videos by subject.
type Topic struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

// TableName overrides the table name.
func (Topic) TableName() string {
	return "topics"
}

// Subtopic narrows a Topic. Subtopics are removed with their topic.
type Subtopic struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	TopicID     uint    `gorm:"column:topic_id;not null;index" json:"topic"`
}

// TableName overrides the table name.
func (Subtopic) TableName() string {
	return "subtopics"
}
