// Package events carries data change notifications from the base store to
// subscribers (audit trail, inquiry mails) without the store knowing them.
package events

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"zeniverse_api/internal/logger"
)

// Operations emitted by the base store.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// DataChangeEvent describes one successful write. Document is the record
// after the change, nil on delete.
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	DocumentID     string
	Document       interface{}
}

// DataChangeHandler reacts to a DataChangeEvent.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

// Bus fans events out to the registered handlers. The zero value is usable.
type Bus struct {
	mu       sync.RWMutex
	handlers []DataChangeHandler
	wg       sync.WaitGroup
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnDataChanged registers h. Call during startup.
func (b *Bus) OnDataChanged(h DataChangeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit runs every handler in its own goroutine. The request context is
// detached so handlers outlive the response. A nil bus is a no-op.
func (b *Bus) Emit(ctx context.Context, e DataChangeEvent) {
	if b == nil {
		return
	}

	b.mu.RLock()
	list := make([]DataChangeHandler, len(b.handlers))
	copy(list, b.handlers)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range list {
		b.wg.Add(1)
		go func(fn DataChangeHandler) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.WithModule("events").WithFields(map[string]interface{}{
						"collection": e.CollectionName,
						"operation":  e.Operation,
						"panic":      r,
					}).Error("Data change handler panicked")
				}
			}()
			fn(detached, e)
		}(h)
	}
}

// Wait blocks until every handler started so far has returned. Used on
// shutdown and in tests.
func (b *Bus) Wait() {
	if b == nil {
		return
	}
	b.wg.Wait()
}

// AuditTrail returns a handler writing one entry per event to log. Deletes
// carry no document.
func AuditTrail(log logrus.FieldLogger) DataChangeHandler {
	return func(_ context.Context, e DataChangeEvent) {
		log.WithFields(logrus.Fields{
			"collection":  e.CollectionName,
			"operation":   e.Operation,
			"document_id": e.DocumentID,
		}).Info("Data changed")
	}
}
