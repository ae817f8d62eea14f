package models

import "time"

// Connection status values. A connection only ever moves active → deleted.
const (
	ConnectionStatusActive  = "active"
	ConnectionStatusDeleted = "deleted"
)

// Connection links a user to an external account at a provider.
// Rows are created by the OAuth callback path and soft-deleted on disconnect;
// a deleted row stays in place so the audit trail keeps its referent.
type Connection struct {
	ID           int64      `gorm:"primaryKey"                                                  json:"id"`
	UserID       int64      `gorm:"uniqueIndex:idx_conn_identity;not null;index"                json:"user_id"`
	ProviderID   int64      `gorm:"uniqueIndex:idx_conn_identity;not null"                      json:"provider_id"`
	ExternalID   string     `gorm:"type:varchar(255);uniqueIndex:idx_conn_identity;not null"    json:"external_id"`
	AccessToken  string     `gorm:"type:text"                                                   json:"-"`
	RefreshToken string     `gorm:"type:text"                                                   json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       StringList `gorm:"type:json"                                                   json:"scopes"`
	Metadata     JSONMap    `gorm:"type:json"                                                   json:"metadata,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:active;index"              json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"     json:"-"`
	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"provider,omitempty"`
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// IsActive reports whether the connection is usable
func (c *Connection) IsActive() bool {
	return c.Status == ConnectionStatusActive
}
