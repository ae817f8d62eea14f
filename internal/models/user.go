package models

import "time"

// User represents an end user known through an OAuth callback.
// Users are created and updated exclusively by the callback path (upsert by
// email) and are never hard-deleted.
type User struct {
	ID        int64     `gorm:"primaryKey"                             json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(255)"                      json:"name"`
	AvatarURL string    `gorm:"type:varchar(500)"                      json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
