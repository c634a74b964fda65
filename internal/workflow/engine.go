package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"pelican/internal/classifier"
	"pelican/internal/model"
	"pelican/internal/render"
	"pelican/internal/repository"

	"github.com/rs/zerolog/log"
)

// Step names. Each step commits a checkpoint before the run advances, and
// a resumed run replays committed steps from their recorded result.
const (
	StepCollect  = "collect"
	StepClassify = "classify"
	StepPersist  = "persist"
	StepArchive  = "archive"
)

// Collector renders a destination page
type Collector interface {
	Collect(ctx context.Context, url string) (*render.Page, error)
}

// Classifier judges destination health from page text
type Classifier interface {
	Classify(ctx context.Context, bodyText string) (*classifier.Verdict, error)
}

// Engine executes destination evaluation workflows with durable,
// step-level checkpointing.
type Engine struct {
	checkpoints repository.CheckpointStore
	evaluations repository.EvaluationStore
	blobs       repository.BlobStore
	collector   Collector
	classifier  Classifier
	retry       RetryPolicy
}

// NewEngine creates a workflow engine
func NewEngine(
	checkpoints repository.CheckpointStore,
	evaluations repository.EvaluationStore,
	blobs repository.BlobStore,
	collector Collector,
	classifier Classifier,
) *Engine {
	return &Engine{
		checkpoints: checkpoints,
		evaluations: evaluations,
		blobs:       blobs,
		collector:   collector,
		classifier:  classifier,
		retry:       DefaultRetryPolicy,
	}
}

// runStep replays a committed step from its checkpoint, or executes it
// under the given retry policy and commits the result before returning.
func runStep[T any](ctx context.Context, e *Engine, instanceID, step string, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	cp, err := e.checkpoints.GetCheckpoint(ctx, instanceID, step)
	if err != nil {
		return zero, fmt.Errorf("load checkpoint %s: %w", step, err)
	}
	if cp != nil {
		var result T
		if err := json.Unmarshal(cp.Result, &result); err != nil {
			return zero, fmt.Errorf("replay checkpoint %s: %w", step, err)
		}
		log.Debug().Str("instance_id", instanceID).Str("step", step).Msg("Replaying committed step")
		return result, nil
	}

	result, err := withRetry(ctx, policy, fn)
	if err != nil {
		return zero, fmt.Errorf("step %s: %w", step, err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return zero, fmt.Errorf("encode checkpoint %s: %w", step, err)
	}
	if err := e.checkpoints.SaveCheckpoint(ctx, &model.WorkflowCheckpoint{
		InstanceID: instanceID,
		Step:       step,
		Result:     raw,
	}); err != nil {
		return zero, fmt.Errorf("commit checkpoint %s: %w", step, err)
	}

	return result, nil
}
