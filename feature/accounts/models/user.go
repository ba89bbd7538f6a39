package models

import "time"

// User is an account that can save videos and curate lists.
// Admins may also write to the catalog.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	DateJoined   time.Time `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
}

// TableName overrides the table name.
func (User) TableName() string {
	return "users"
}
