// Package notify delivers side-channel notifications for dispatch changes.
// Change events go out on NATS so cache-invalidation consumers can refresh;
// the dispatch desk gets a Telegram message when a driver is assigned.
// Neither channel is authoritative: the store is the source of truth.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Op is the kind of mutation a Change describes.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Table names used as subject suffixes.
const (
	TableTrips       = "trips"
	TableAssignments = "trip_assignments"
)

// Change is the payload published for every mutation of a table.
// Consumers only use it to decide what to invalidate.
type Change struct {
	Table string    `json:"table"`
	Op    Op        `json:"op"`
	ID    uuid.UUID `json:"id"`
}

// Publisher publishes Change events on "<prefix>.<table>".
// A Publisher with a nil connection accepts every call and does nothing,
// which is how the service runs when NATS_URL is unset.
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

// NewPublisher constructs a Publisher. nc may be nil.
func NewPublisher(nc *nats.Conn, prefix string) *Publisher {
	return &Publisher{nc: nc, prefix: prefix}
}

// Subject returns the subject a change to table is published on.
func (p *Publisher) Subject(table string) string {
	return p.prefix + "." + table
}

// Publish sends c on the table's subject. NATS publishes are buffered and
// do not take a context, so ctx is only checked before the write.
func (p *Publisher) Publish(ctx context.Context, c Change) error {
	if p == nil || p.nc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify.Publisher.Publish: %w", err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("notify.Publisher.Publish: marshal: %w", err)
	}
	if err := p.nc.Publish(p.Subject(c.Table), data); err != nil {
		return fmt.Errorf("notify.Publisher.Publish: %w", err)
	}
	return nil
}

// Subscribe calls fn for every change published for table. Messages that do
// not decode as a Change are dropped. With a nil connection Subscribe returns
// a nil subscription and no error.
func (p *Publisher) Subscribe(table string, fn func(Change)) (*nats.Subscription, error) {
	if p == nil || p.nc == nil {
		return nil, nil
	}
	sub, err := p.nc.Subscribe(p.Subject(table), func(msg *nats.Msg) {
		var c Change
		if err := json.Unmarshal(msg.Data, &c); err != nil {
			return
		}
		fn(c)
	})
	if err != nil {
		return nil, fmt.Errorf("notify.Publisher.Subscribe: %w", err)
	}
	return sub, nil
}
