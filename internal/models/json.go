package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OAuthEndpoints is the per-provider OAuth endpoint configuration stored as a
// JSON column. The wire shape matches the provider registry API responses.
type OAuthEndpoints struct {
	AuthURL  string `json:"authUrl"`
	TokenURL string `json:"tokenUrl"`
}

// Value implements the driver.Valuer interface for database storage
func (o OAuthEndpoints) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements the sql.Scanner interface for database retrieval
func (o *OAuthEndpoints) Scan(value any) error {
	if value == nil {
		*o = OAuthEndpoints{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal OAuthEndpoints value: %w", err)
	}
	return json.Unmarshal(bytes, o)
}

// StringList is an ordered list of strings stored as a JSON array column.
// Used for provider and connection scopes, where order is significant.
type StringList []string

// Value implements the driver.Valuer interface for database storage
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal StringList value: %w", err)
	}
	return json.Unmarshal(bytes, s)
}

// JSONMap is an arbitrary JSON object stored as a JSON column
type JSONMap map[string]any

// Value implements the driver.Valuer interface for database storage
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil //nolint:nilnil // nil driver.Value represents SQL NULL, which is valid here
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal JSONMap value: %w", err)
	}
	result := make(JSONMap)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*m = result
	return nil
}

// toBytes normalizes the raw driver value to a byte slice. SQLite returns
// []byte, Postgres JSONB may surface as string depending on the driver.
func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
