// Package bus provides the in-process ingest signal bus: a buffered
// channel with close-once semantics. Delivery is at-least-once and
// non-durable; a crash between persist and pickup loses the signal,
// and reconciliation repairs the gap.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Channel implements the interface.
var _ driven.IngestBus = (*Channel)(nil)

// DefaultBuffer is the default signal buffer size.
const DefaultBuffer = 128

// Channel is a buffered-channel driven.IngestBus.
type Channel struct {
	mu      sync.Mutex
	signals chan domain.IngestSignal
	closed  bool
}

// NewChannel creates a bus. buffer <= 0 selects the default.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Channel{signals: make(chan domain.IngestSignal, buffer)}
}

// Publish enqueues a signal, blocking when the buffer is full.
func (c *Channel) Publish(ctx context.Context, sig domain.IngestSignal) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("ingest bus closed")
	}
	c.mu.Unlock()

	select {
	case c.signals <- sig:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Signals returns the consumer channel.
func (c *Channel) Signals() <-chan domain.IngestSignal {
	return c.signals
}

// Close stops the bus and closes the consumer channel. Idempotent.
// Producers must be stopped before Close; the composition root tears
// down the watcher and CLI surfaces first.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.signals)
	return nil
}
