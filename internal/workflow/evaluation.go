package workflow

import (
	"context"
	"fmt"

	"pelican/internal/classifier"
	"pelican/internal/model"
	"pelican/internal/render"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StartEvaluation creates a durable instance for a destination and runs it
// to a terminal state. Implements the scheduler's WorkflowStarter contract.
func (e *Engine) StartEvaluation(ctx context.Context, accountID, linkID, destinationURL string) error {
	instance := &model.WorkflowInstance{
		ID:             uuid.NewString(),
		LinkID:         linkID,
		AccountID:      accountID,
		DestinationURL: destinationURL,
		Status:         model.WorkflowRunning,
	}
	if err := e.checkpoints.CreateWorkflowInstance(ctx, instance); err != nil {
		return fmt.Errorf("create workflow instance: %w", err)
	}

	return e.Run(ctx, instance)
}

// Resume re-executes an interrupted instance. Steps that committed before
// the interruption replay from their checkpoints; the rest run normally.
func (e *Engine) Resume(ctx context.Context, instance *model.WorkflowInstance) error {
	return e.Run(ctx, instance)
}

// Run drives the four evaluation steps in order and records the terminal
// state on the instance row.
func (e *Engine) Run(ctx context.Context, instance *model.WorkflowInstance) error {
	err := e.run(ctx, instance)
	if err != nil {
		if updateErr := e.checkpoints.UpdateWorkflowStatus(ctx, instance.ID, model.WorkflowFailed, err.Error()); updateErr != nil {
			log.Error().Err(updateErr).Str("instance_id", instance.ID).Msg("Failed to record workflow failure")
		}
		return err
	}
	return e.checkpoints.UpdateWorkflowStatus(ctx, instance.ID, model.WorkflowCompleted, "")
}

func (e *Engine) run(ctx context.Context, instance *model.WorkflowInstance) error {
	page, err := runStep(ctx, e, instance.ID, StepCollect, e.retry, func(ctx context.Context) (*render.Page, error) {
		return e.collector.Collect(ctx, instance.DestinationURL)
	})
	if err != nil {
		return err
	}

	verdict, err := runStep(ctx, e, instance.ID, StepClassify, NoRetry, func(ctx context.Context) (*classifier.Verdict, error) {
		return e.classifier.Classify(ctx, page.BodyText)
	})
	if err != nil {
		return err
	}

	evaluationID, err := runStep(ctx, e, instance.ID, StepPersist, e.retry, func(ctx context.Context) (int64, error) {
		return e.evaluations.AddEvaluation(ctx, &model.Evaluation{
			LinkID:           instance.LinkID,
			AccountID:        instance.AccountID,
			DestinationURL:   instance.DestinationURL,
			Status:           verdict.Status,
			Reason:           verdict.Reason,
			IdempotencyToken: instance.ID + ":" + StepPersist,
		})
	})
	if err != nil {
		return err
	}

	_, err = runStep(ctx, e, instance.ID, StepArchive, e.retry, func(ctx context.Context) (bool, error) {
		htmlPath := fmt.Sprintf("evaluations/%s/html/%d", instance.AccountID, evaluationID)
		textPath := fmt.Sprintf("evaluations/%s/body-text/%d", instance.AccountID, evaluationID)

		if err := e.blobs.PutObject(ctx, htmlPath, []byte(page.HTML)); err != nil {
			return false, err
		}
		if err := e.blobs.PutObject(ctx, textPath, []byte(page.BodyText)); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("instance_id", instance.ID).
		Str("link_id", instance.LinkID).
		Str("status", verdict.Status).
		Int64("evaluation_id", evaluationID).
		Msg("Destination evaluation completed")

	return nil
}
