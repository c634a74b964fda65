package mq

import (
	"context"

	"pelican/internal/model"
)

// ProducerInterface defines the interface for message production
type ProducerInterface interface {
	SendLinkClick(ctx context.Context, msg *model.ClickMessage) error
	Close() error
}

// ConsumerInterface defines the interface for message consumption
type ConsumerInterface interface {
	Subscribe() error
	Close() error
}
