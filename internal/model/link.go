package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultDestinationKey is the destinations map key used when no country
// specific destination matches.
const DefaultDestinationKey = "default"

var (
	// ErrMissingDefaultDestination is returned when a destinations map has no default entry
	ErrMissingDefaultDestination = errors.New("destinations must contain a default entry")
	// ErrInvalidCountryCode is returned when a destinations key is not an uppercase ISO code
	ErrInvalidCountryCode = errors.New("destination country codes must be uppercase ISO alpha-2")
)

// DestinationMap maps uppercase ISO country codes (plus "default") to URLs.
// Stored as a JSON column.
type DestinationMap map[string]string

// Value implements driver.Valuer for GORM
func (m DestinationMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for GORM
func (m *DestinationMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported destinations column type %T", value)
	}
}

// Validate checks the structural invariants of the map: a default entry
// is present and every other key is an uppercase ISO alpha-2 code.
func (m DestinationMap) Validate() error {
	if _, ok := m[DefaultDestinationKey]; !ok {
		return ErrMissingDefaultDestination
	}
	for key := range m {
		if key == DefaultDestinationKey {
			continue
		}
		if !isCountryCode(key) {
			return fmt.Errorf("%w: %q", ErrInvalidCountryCode, key)
		}
	}
	return nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Link represents a short link record
type Link struct {
	ID           string         `json:"id" gorm:"type:varchar(32);primaryKey"`
	AccountID    string         `json:"account_id" gorm:"type:varchar(64);index;not null"`
	Destinations DestinationMap `json:"destinations" gorm:"type:json;not null"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for Link
func (Link) TableName() string {
	return "links"
}

// DestinationFor returns the destination URL for a country code. An empty
// or unmapped code falls back to the default destination. There is no
// partial-match or region fallback.
func (l *Link) DestinationFor(countryCode string) string {
	if countryCode == "" {
		return l.Destinations[DefaultDestinationKey]
	}
	if dest, ok := l.Destinations[countryCode]; ok {
		return dest
	}
	return l.Destinations[DefaultDestinationKey]
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	AccountID    string            `json:"account_id" binding:"required"`
	Destinations map[string]string `json:"destinations" binding:"required"`
}

// CreateLinkResponse represents the response of link creation
type CreateLinkResponse struct {
	ID           string            `json:"id"`
	AccountID    string            `json:"account_id"`
	Destinations map[string]string `json:"destinations"`
}
