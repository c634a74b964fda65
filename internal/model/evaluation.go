package model

import (
	"time"
)

// Destination health statuses produced by the classifier.
const (
	StatusUp         = "UP"
	StatusDown       = "DOWN"
	StatusUnknown    = "UNKNOWN"
	StatusSuspicious = "SUSPICIOUS"
)

// ValidStatus reports whether s is a known destination status
func ValidStatus(s string) bool {
	switch s {
	case StatusUp, StatusDown, StatusUnknown, StatusSuspicious:
		return true
	}
	return false
}

// Evaluation is one row of the evaluation log. The ID is assigned by the
// store; IdempotencyToken is scoped to a workflow instance so a replayed
// persist step never creates a second row.
type Evaluation struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LinkID           string    `json:"link_id" gorm:"type:varchar(32);index;not null"`
	AccountID        string    `json:"account_id" gorm:"type:varchar(64);index;not null"`
	DestinationURL   string    `json:"destination_url" gorm:"type:varchar(2048);not null"`
	Status           string    `json:"status" gorm:"type:varchar(16);not null"`
	Reason           string    `json:"reason" gorm:"type:varchar(1024)"`
	IdempotencyToken string    `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for Evaluation
func (Evaluation) TableName() string {
	return "evaluations"
}

// ArchiveObject is a blob archived at a deterministic path. Rewriting the
// same path replaces the payload, which keeps workflow retries safe.
type ArchiveObject struct {
	Path      string    `json:"path" gorm:"type:varchar(255);primaryKey"`
	Data      []byte    `json:"-" gorm:"type:longblob"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for ArchiveObject
func (ArchiveObject) TableName() string {
	return "archive_objects"
}
