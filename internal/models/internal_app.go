package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Internal app status values
const (
	AppStatusActive   = "active"
	AppStatusInactive = "inactive"
)

// Manifest is the self-description an internal app submits at registration,
// stored as a JSON column on the registry row
type Manifest struct {
	PcarpVersion   string  `json:"pcarp_version"`
	App            JSONMap `json:"app,omitempty"`
	Authentication JSONMap `json:"authentication,omitempty"`
	Capabilities   JSONMap `json:"capabilities,omitempty"`
}

// IsZero reports whether no manifest was submitted
func (m Manifest) IsZero() bool {
	return m.PcarpVersion == "" && m.App == nil &&
		m.Authentication == nil && m.Capabilities == nil
}

// Value implements the driver.Valuer interface for database storage
func (m Manifest) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Manifest) Scan(value any) error {
	if value == nil {
		*m = Manifest{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal Manifest value: %w", err)
	}
	return json.Unmarshal(bytes, m)
}

// InternalApp is a registered internal application that external services can
// be mapped onto. There is intentionally no uniqueness constraint on
// (name, display_name): re-registration creates a new row and the admin
// listing deduplicates at read time, keeping the lowest id per group.
type InternalApp struct {
	ID           int64     `gorm:"primaryKey"                              json:"id"`
	Name         string    `gorm:"type:varchar(100);not null;index"        json:"name"`
	DisplayName  string    `gorm:"type:varchar(255);not null"              json:"display_name"`
	Description  string    `gorm:"type:text"                               json:"description,omitempty"`
	LogoURL      string    `gorm:"type:varchar(500)"                       json:"logo_url,omitempty"`
	APIEndpoints JSONMap   `gorm:"type:json"                               json:"api_endpoints,omitempty"`
	ManifestData Manifest  `gorm:"type:json"                               json:"manifest_data"`
	Status       string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (InternalApp) TableName() string {
	return "internal_apps"
}

// IsActive reports whether the app can accept new mappings
func (a *InternalApp) IsActive() bool {
	return a.Status == AppStatusActive
}
