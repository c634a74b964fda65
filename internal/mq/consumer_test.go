package mq

import (
	"context"
	"testing"
	"time"

	"pelican/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_Subscribe_AlreadyStarted(t *testing.T) {
	t.Run("subscribe when already started returns nil", func(t *testing.T) {
		c := &Consumer{
			started: true,
		}

		err := c.Subscribe()
		assert.NoError(t, err)
	})
}

func TestConsumer_Close(t *testing.T) {
	t.Run("nil consumer close returns nil", func(t *testing.T) {
		var c *Consumer
		err := c.Close()
		assert.NoError(t, err)
	})

	t.Run("consumer with nil client close returns nil", func(t *testing.T) {
		c := &Consumer{
			client: nil,
		}
		err := c.Close()
		assert.NoError(t, err)
	})
}

type fakeSink struct {
	clicks []model.ClickPoint
	err    error
}

func (f *fakeSink) AddClick(accountID string, lat, lon float64, country string, ts time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.clicks = append(f.clicks, model.ClickPoint{
		AccountID: accountID,
		Latitude:  lat,
		Longitude: lon,
		Country:   country,
		Timestamp: ts,
	})
	return nil
}

type fakeCollector struct {
	calls []string
	err   error
}

func (f *fakeCollector) CollectLinkClick(accountID, linkID, destination, country string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, linkID+"|"+destination+"|"+country)
	return nil
}

func validClick() *model.ClickMessage {
	lat, lon := 40.7, -74.0
	return &model.ClickMessage{
		LinkID:      "abc",
		AccountID:   "acct-1",
		Destination: "https://a.com",
		Country:     "US",
		Latitude:    &lat,
		Longitude:   &lon,
		Timestamp:   time.Now(),
	}
}

func TestClickDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("complete click reaches both actors", func(t *testing.T) {
		sink := &fakeSink{}
		collector := &fakeCollector{}
		handler := NewClickDispatcher(sink, collector)

		require.NoError(t, handler(ctx, validClick()))

		require.Len(t, sink.clicks, 1)
		assert.Equal(t, "acct-1", sink.clicks[0].AccountID)
		assert.Equal(t, "US", sink.clicks[0].Country)
		require.Len(t, collector.calls, 1)
		assert.Equal(t, "abc|https://a.com|US", collector.calls[0])
	})

	t.Run("click without geo skips the aggregator", func(t *testing.T) {
		sink := &fakeSink{}
		collector := &fakeCollector{}
		handler := NewClickDispatcher(sink, collector)

		msg := validClick()
		msg.Latitude = nil
		msg.Longitude = nil
		msg.Country = ""

		require.NoError(t, handler(ctx, msg))

		assert.Empty(t, sink.clicks)
		require.Len(t, collector.calls, 1)
	})

	t.Run("malformed message is dropped, not redelivered", func(t *testing.T) {
		sink := &fakeSink{}
		collector := &fakeCollector{}
		handler := NewClickDispatcher(sink, collector)

		msg := validClick()
		msg.LinkID = ""

		assert.NoError(t, handler(ctx, msg))
		assert.Empty(t, sink.clicks)
		assert.Empty(t, collector.calls)
	})

	t.Run("sink error requests redelivery", func(t *testing.T) {
		sink := &fakeSink{err: assert.AnError}
		collector := &fakeCollector{}
		handler := NewClickDispatcher(sink, collector)

		assert.Error(t, handler(ctx, validClick()))
		assert.Empty(t, collector.calls)
	})

	t.Run("collector error requests redelivery", func(t *testing.T) {
		sink := &fakeSink{}
		collector := &fakeCollector{err: assert.AnError}
		handler := NewClickDispatcher(sink, collector)

		assert.Error(t, handler(ctx, validClick()))
	})
}
