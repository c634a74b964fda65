package mq

import (
	"context"
	"testing"
	"time"

	"pelican/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestProducer_SendLinkClick_NilProducer(t *testing.T) {
	t.Run("nil producer returns nil", func(t *testing.T) {
		var p *Producer
		msg := &model.ClickMessage{
			LinkID:      "abc",
			AccountID:   "acct-1",
			Destination: "https://a.com",
			Timestamp:   time.Now(),
		}

		err := p.SendLinkClick(context.Background(), msg)
		assert.NoError(t, err)
	})
}

func TestProducer_Close(t *testing.T) {
	t.Run("nil producer close returns nil", func(t *testing.T) {
		var p *Producer
		err := p.Close()
		assert.NoError(t, err)
	})
}
