package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingLinkID is returned when a click message has no link id
	ErrMissingLinkID = errors.New("click message missing link id")
	// ErrMissingAccountID is returned when a click message has no account id
	ErrMissingAccountID = errors.New("click message missing account id")
	// ErrMissingDestination is returned when a click message has no destination
	ErrMissingDestination = errors.New("click message missing destination")
	// ErrLatitudeOutOfRange is returned for latitudes outside [-90, 90]
	ErrLatitudeOutOfRange = errors.New("latitude out of range")
	// ErrLongitudeOutOfRange is returned for longitudes outside [-180, 180]
	ErrLongitudeOutOfRange = errors.New("longitude out of range")
)

// ClickMessage represents one resolved request, produced by the redirect
// handler and consumed from the queue by the aggregator and the scheduler.
// Country, Latitude and Longitude are optional; a message without them is
// still valid telemetry, it just contributes no geo point.
type ClickMessage struct {
	LinkID      string    `json:"link_id"`
	AccountID   string    `json:"account_id"`
	Destination string    `json:"destination"`
	Country     string    `json:"country,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Validate checks the message structure at the trust boundary. Required
// identifiers must be present; optional geo fields, when present, must be
// in range and the country must be an uppercase ISO alpha-2 code.
func (m *ClickMessage) Validate() error {
	if m.LinkID == "" {
		return ErrMissingLinkID
	}
	if m.AccountID == "" {
		return ErrMissingAccountID
	}
	if m.Destination == "" {
		return ErrMissingDestination
	}
	if m.Country != "" && !isCountryCode(m.Country) {
		return fmt.Errorf("%w: %q", ErrInvalidCountryCode, m.Country)
	}
	if m.Latitude != nil && (*m.Latitude < -90 || *m.Latitude > 90) {
		return fmt.Errorf("%w: %v", ErrLatitudeOutOfRange, *m.Latitude)
	}
	if m.Longitude != nil && (*m.Longitude < -180 || *m.Longitude > 180) {
		return fmt.Errorf("%w: %v", ErrLongitudeOutOfRange, *m.Longitude)
	}
	return nil
}

// HasGeo reports whether the message carries complete geo data. Messages
// without it are accepted for telemetry but excluded from the aggregator.
func (m *ClickMessage) HasGeo() bool {
	return m.Latitude != nil && m.Longitude != nil && m.Country != ""
}

// ClickPoint is one geo-tagged click accumulated per account
type ClickPoint struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountID string    `json:"account_id" gorm:"type:varchar(64);index;not null"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Country   string    `json:"country" gorm:"type:varchar(2)"`
	Timestamp time.Time `json:"timestamp"`
}

// TableName returns the table name for ClickPoint
func (ClickPoint) TableName() string {
	return "click_points"
}
