package models

import "time"

// Provider is a registry row describing an external OAuth provider.
// The registry is read-mostly: rows are seeded at startup and edited out of
// band, so reads go through the cache-aside layer.
type Provider struct {
	ID          int64          `gorm:"primaryKey"                             json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	DisplayName string         `gorm:"type:varchar(255);not null"             json:"display_name"`
	OAuthConfig OAuthEndpoints `gorm:"type:json"                              json:"oauth_config"`
	Scopes      StringList     `gorm:"type:json"                              json:"scopes"`
	Enabled     bool           `gorm:"not null;default:true"                  json:"enabled"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Provider) TableName() string {
	return "providers"
}
