package actor

import (
	"context"
	"fmt"
	"time"

	"pelican/pkg/util"

	"github.com/rs/zerolog/log"
)

// UnknownCountry is the sentinel used when a click carries no country
const UnknownCountry = "UNKNOWN"

// WorkflowStarter launches one destination evaluation run and blocks until
// it reaches a terminal state.
type WorkflowStarter interface {
	StartEvaluation(ctx context.Context, accountID, linkID, destinationURL string) error
}

// EvaluationScheduler debounces click events into evaluation workflow
// triggers, one actor instance per (link, destination) pair. The trigger
// decision runs inside the pair's single worker, so duplicate triggers
// cannot race, and at most one workflow instance is in flight per key.
type EvaluationScheduler struct {
	system   *System[*destinationState]
	starter  WorkflowStarter
	cooldown time.Duration
	now      func() time.Time
}

type destinationState struct {
	inFlight      bool
	everEvaluated bool
	lastEvaluated time.Time
	// countries credited to a past or in-flight evaluation
	countries map[string]struct{}
}

// NewEvaluationScheduler creates a new EvaluationScheduler. Cooldown is the
// minimum interval between evaluations triggered by already-seen countries.
func NewEvaluationScheduler(starter WorkflowStarter, cooldown time.Duration) *EvaluationScheduler {
	return &EvaluationScheduler{
		system: NewSystem(func(string) *destinationState {
			return &destinationState{countries: make(map[string]struct{})}
		}),
		starter:  starter,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// CollectLinkClick feeds one click into the debounce state for the
// (link, destination) pair. The policy: fire on the first click ever, on a
// click from a country no past evaluation has covered, or once the
// cooldown has elapsed. Triggers while a workflow is in flight are
// coalesced.
func (s *EvaluationScheduler) CollectLinkClick(accountID, linkID, destination, country string) error {
	if country == "" {
		country = UnknownCountry
	}
	key := destinationKey(linkID, destination)

	return s.system.Tell(key, func(st *destinationState) {
		if st.inFlight {
			return
		}
		if !s.shouldTrigger(st, country) {
			return
		}

		st.countries[country] = struct{}{}
		st.inFlight = true
		log.Info().
			Str("link_id", linkID).
			Str("destination", destination).
			Str("country", country).
			Msg("Scheduling destination evaluation")

		go s.runEvaluation(key, accountID, linkID, destination, country)
	})
}

func (s *EvaluationScheduler) shouldTrigger(st *destinationState, country string) bool {
	if !st.everEvaluated {
		return true
	}
	if _, seen := st.countries[country]; !seen {
		return true
	}
	return s.now().Sub(st.lastEvaluated) >= s.cooldown
}

// runEvaluation executes the workflow off the actor worker and feeds the
// outcome back through the mailbox.
func (s *EvaluationScheduler) runEvaluation(key, accountID, linkID, destination, country string) {
	err := s.starter.StartEvaluation(context.Background(), accountID, linkID, destination)

	tellErr := s.system.Tell(key, func(st *destinationState) {
		st.inFlight = false
		if err != nil {
			// A failed instance is not re-triggered; un-crediting the
			// country lets the next click from it start a fresh one.
			delete(st.countries, country)
			log.Error().Err(err).Str("link_id", linkID).Str("destination", destination).Msg("Evaluation workflow failed")
			return
		}
		st.everEvaluated = true
		st.lastEvaluated = s.now()
	})
	if tellErr != nil {
		log.Warn().Err(tellErr).Str("link_id", linkID).Msg("Scheduler stopped before evaluation outcome was recorded")
	}
}

// Stop drains every destination mailbox
func (s *EvaluationScheduler) Stop() {
	s.system.Stop()
}

// destinationKey derives the actor address for a (link, destination) pair.
// The destination is hashed to bound the key length.
func destinationKey(linkID, destination string) string {
	return fmt.Sprintf("%s:%016x", linkID, util.HashString(destination))
}
