package mq

import (
	"context"
	"time"

	"pelican/internal/model"

	"github.com/rs/zerolog/log"
)

// ClickSink receives geo-complete clicks, keyed by account
type ClickSink interface {
	AddClick(accountID string, latitude, longitude float64, country string, timestamp time.Time) error
}

// EvaluationCollector receives every click, keyed by link and destination
type EvaluationCollector interface {
	CollectLinkClick(accountID, linkID, destination, country string) error
}

// NewClickDispatcher builds the consumer handler that fans a click message
// out to the aggregator and the scheduler. Messages are validated at this
// boundary; a structurally invalid message is dropped rather than
// redelivered forever. A click missing geo data still reaches the
// scheduler, it just contributes no aggregator point.
func NewClickDispatcher(sink ClickSink, collector EvaluationCollector) ClickHandler {
	return func(ctx context.Context, msg *model.ClickMessage) error {
		if err := msg.Validate(); err != nil {
			log.Warn().Err(err).Str("link_id", msg.LinkID).Msg("Dropping malformed click message")
			return nil
		}

		if msg.HasGeo() {
			if err := sink.AddClick(msg.AccountID, *msg.Latitude, *msg.Longitude, msg.Country, msg.Timestamp); err != nil {
				return err
			}
		}

		return collector.CollectLinkClick(msg.AccountID, msg.LinkID, msg.Destination, msg.Country)
	}
}
