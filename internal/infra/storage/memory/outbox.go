package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	infraoutbox "github.com/KarlGo0815/cbvgoodwill/internal/infra/outbox"
)

// Outbox keeps event records in process and serves the same polling worker
// as the Mongo store. It locks independently of the storage mutex, so
// handlers can append while holding a transaction.
type Outbox struct {
	mu      sync.Mutex
	records []*infraoutbox.EventDocument
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// Add rides the unit of work in flight: the record becomes visible to the
// worker only when that unit commits, and a rollback drops it. Without a
// surrounding unit the record is queued immediately.
func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	if unit, ok := uow.FromContext(ctx); ok {
		if memUnit, ok := unit.(*Unit); ok && !memUnit.finished {
			memUnit.deferOnCommit(func() { o.append(record) })
			return nil
		}
	}
	o.append(record)
	return nil
}

func (o *Outbox) append(record appoutbox.EventRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, &infraoutbox.EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		State:       "NEW",
		NextAttempt: time.Now().UTC(),
	})
}

func (o *Outbox) Flush(ctx context.Context) error {
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	for _, doc := range o.records {
		if doc.State != "NEW" && doc.State != "FAILED" {
			continue
		}
		if doc.NextAttempt.After(now) {
			continue
		}
		doc.State = "CLAIMED"
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		copied := *doc
		return &copied, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, doc := range o.records {
		if doc.ID == id {
			doc.State = "SENT"
			doc.SentAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, doc := range o.records {
		if doc.ID == id {
			doc.State = "FAILED"
			doc.NextAttempt = next
			doc.LastError = errMsg
			doc.Attempts++
			return nil
		}
	}
	return nil
}

var (
	_ appoutbox.Outbox       = (*Outbox)(nil)
	_ infraoutbox.EventStore = (*Outbox)(nil)
)
