package model

import (
	"time"
)

// Workflow instance states.
const (
	WorkflowRunning   = "running"
	WorkflowCompleted = "completed"
	WorkflowFailed    = "failed"
)

// WorkflowInstance is one durable run of the destination evaluation
// workflow.
type WorkflowInstance struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	LinkID         string    `json:"link_id" gorm:"type:varchar(32);index;not null"`
	AccountID      string    `json:"account_id" gorm:"type:varchar(64);not null"`
	DestinationURL string    `json:"destination_url" gorm:"type:varchar(2048);not null"`
	Status         string    `json:"status" gorm:"type:varchar(16);not null"`
	Error          string    `json:"error,omitempty" gorm:"type:varchar(1024)"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for WorkflowInstance
func (WorkflowInstance) TableName() string {
	return "workflow_instances"
}

// WorkflowCheckpoint records the committed result of one workflow step.
// A step with a checkpoint is replayed from Result instead of re-executed.
type WorkflowCheckpoint struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	InstanceID string    `json:"instance_id" gorm:"type:varchar(36);uniqueIndex:idx_instance_step;not null"`
	Step       string    `json:"step" gorm:"type:varchar(64);uniqueIndex:idx_instance_step;not null"`
	Result     []byte    `json:"result" gorm:"type:json"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for WorkflowCheckpoint
func (WorkflowCheckpoint) TableName() string {
	return "workflow_checkpoints"
}
