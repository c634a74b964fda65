package actor

import (
	"context"
	"time"

	"pelican/internal/model"
	"pelican/internal/repository"

	"github.com/rs/zerolog/log"
)

// ClickAggregator accumulates geo-tagged click points, one actor instance
// per account id. Callers must filter events missing any geo field before
// invoking AddClick; the aggregator assumes well-formed geo data.
type ClickAggregator struct {
	system *System[*accountClicks]
	store  repository.ClickStore
}

type accountClicks struct {
	accountID string
	loaded    bool
	points    []model.ClickPoint
}

// NewClickAggregator creates a new ClickAggregator backed by a durable
// click store
func NewClickAggregator(store repository.ClickStore) *ClickAggregator {
	return &ClickAggregator{
		system: NewSystem(func(key string) *accountClicks {
			return &accountClicks{accountID: key}
		}),
		store: store,
	}
}

// AddClick appends one point to the account's state. Safe to call from any
// number of producers; the per-account mailbox serializes the appends, so
// no update is lost. A duplicate delivery just contributes an extra point.
func (a *ClickAggregator) AddClick(accountID string, latitude, longitude float64, country string, timestamp time.Time) error {
	return a.system.Tell(accountID, func(st *accountClicks) {
		a.ensureLoaded(st)

		point := model.ClickPoint{
			AccountID: st.accountID,
			Latitude:  latitude,
			Longitude: longitude,
			Country:   country,
			Timestamp: timestamp,
		}
		if err := a.store.SaveClickPoint(context.Background(), &point); err != nil {
			log.Error().Err(err).Str("account_id", st.accountID).Msg("Failed to persist click point")
		}
		st.points = append(st.points, point)
	})
}

// Points returns a copy of the accumulated points for an account, in
// arrival order
func (a *ClickAggregator) Points(ctx context.Context, accountID string) ([]model.ClickPoint, error) {
	return Ask(ctx, a.system, accountID, func(st *accountClicks) []model.ClickPoint {
		a.ensureLoaded(st)
		out := make([]model.ClickPoint, len(st.points))
		copy(out, st.points)
		return out
	})
}

// Stop drains every account mailbox
func (a *ClickAggregator) Stop() {
	a.system.Stop()
}

// ensureLoaded lazily restores durable state on the first message for an
// account. Runs on the account's worker, so no lock is needed.
func (a *ClickAggregator) ensureLoaded(st *accountClicks) {
	if st.loaded {
		return
	}
	st.loaded = true

	points, err := a.store.ListClickPoints(context.Background(), st.accountID)
	if err != nil {
		log.Error().Err(err).Str("account_id", st.accountID).Msg("Failed to load click points")
		return
	}
	st.points = points
}
