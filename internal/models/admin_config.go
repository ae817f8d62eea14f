package models

import "time"

// AdminConfigID is the primary key of the singleton admin credential row
const AdminConfigID int64 = 1

// AdminConfig holds the single admin credential (bcrypt hash).
// Exactly one row with ID=1 exists after seeding.
type AdminConfig struct {
	ID           int64     `gorm:"primaryKey"                 json:"id"`
	Username     string    `gorm:"type:varchar(100);not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (AdminConfig) TableName() string {
	return "admin_config"
}
