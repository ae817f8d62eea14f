package models

import "time"

// Mapping status values
const (
	MappingStatusActive   = "active"
	MappingStatusInactive = "inactive"
)

// AppMapping routes an external service key (e.g. "gmail") to an internal
// app. The target app must be active at creation time; the mapping itself is
// hard-deleted when removed.
type AppMapping struct {
	ID              int64     `gorm:"primaryKey"                               json:"id"`
	ExternalService string    `gorm:"type:varchar(100);not null;index"         json:"external_service"`
	InternalAppID   int64     `gorm:"not null;index"                           json:"internal_app_id"`
	MappingConfig   JSONMap   `gorm:"type:json"                                json:"mapping_config,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	InternalApp *InternalApp `gorm:"foreignKey:InternalAppID;constraint:OnDelete:CASCADE" json:"internal_app,omitempty"`
}

// TableName specifies the table name for GORM
func (AppMapping) TableName() string {
	return "app_mappings"
}
