package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. Consumers live in
// downstream marketplace services; this API only publishes.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
