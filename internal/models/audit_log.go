package models

import "time"

// Audit actions recorded by the service
const (
	ActionUserLogin        = "USER_LOGIN"
	ActionConnectionCreate = "CONNECTION_CREATED"
	ActionConnectionDelete = "CONNECTION_DELETED"
	ActionAppRegistered    = "APP_REGISTERED"
	ActionMappingCreated   = "MAPPING_CREATED"
	ActionMappingUpdated   = "MAPPING_UPDATED"
	ActionMappingDeleted   = "MAPPING_DELETED"
	ActionAdminPassword    = "ADMIN_PASSWORD_CHANGED"
)

// AuditDetails carries event-specific context on a trail entry
type AuditDetails = JSONMap

// AuditLog is an append-only trail entry. Rows are written in the same
// transaction as the mutation they describe and are never updated.
// UserID is nullable so the trail survives user deletion (SET NULL).
type AuditLog struct {
	ID        int64        `gorm:"primaryKey"                       json:"id"`
	UserID    *int64       `gorm:"index"                            json:"user_id,omitempty"`
	Action    string       `gorm:"type:varchar(100);index;not null" json:"action"`
	Resource  string       `gorm:"type:varchar(255)"                json:"resource,omitempty"`
	Details   AuditDetails `gorm:"type:json"                        json:"details,omitempty"`
	IPAddress string       `gorm:"type:varchar(45)"                 json:"ip_address,omitempty"` // Support IPv6
	UserAgent string       `gorm:"type:varchar(500)"                json:"user_agent,omitempty"`
	CreatedAt time.Time    `gorm:"index;not null"                   json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}
