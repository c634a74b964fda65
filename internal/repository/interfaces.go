package repository

import (
	"context"

	"pelican/internal/model"
)

// LinkStore is the Record Store surface consumed by the resolver and the
// HTTP handlers
type LinkStore interface {
	GetLink(ctx context.Context, id string) (*model.Link, error)
	SaveLink(ctx context.Context, link *model.Link) error
	ListEvaluations(ctx context.Context, linkID string, limit int) ([]model.Evaluation, error)
}

// LinkCache is the resolution cache surface consumed by the resolver
type LinkCache interface {
	GetLink(ctx context.Context, id string) (*model.Link, error)
	SaveLink(ctx context.Context, link *model.Link) error
}

// ClickStore is the durable backing for click aggregator state
type ClickStore interface {
	SaveClickPoint(ctx context.Context, point *model.ClickPoint) error
	ListClickPoints(ctx context.Context, accountID string) ([]model.ClickPoint, error)
}

// EvaluationStore is the Record Store surface consumed by the workflow
type EvaluationStore interface {
	AddEvaluation(ctx context.Context, eval *model.Evaluation) (int64, error)
}

// CheckpointStore persists workflow instances and step checkpoints
type CheckpointStore interface {
	CreateWorkflowInstance(ctx context.Context, instance *model.WorkflowInstance) error
	UpdateWorkflowStatus(ctx context.Context, instanceID, status, errMsg string) error
	SaveCheckpoint(ctx context.Context, cp *model.WorkflowCheckpoint) error
	GetCheckpoint(ctx context.Context, instanceID, step string) (*model.WorkflowCheckpoint, error)
}

// BlobStore archives raw evaluation artifacts at deterministic paths
type BlobStore interface {
	PutObject(ctx context.Context, path string, data []byte) error
}
