package usecase

import (
	"sync"

	"ratpatrol/internal/domain/entity"
)

// EventPublisher fans report events out to live subscribers. Publish must not
// block the caller.
type EventPublisher interface {
	Publish(event entity.ReportEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(entity.ReportEvent) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// StoreLock serializes every read-modify-write cycle against the store. All
// use cases built for one store must share the same lock.
type StoreLock struct {
	mu sync.Mutex
}

func NewStoreLock() *StoreLock {
	return &StoreLock{}
}

func (l *StoreLock) Lock()   { l.mu.Lock() }
func (l *StoreLock) Unlock() { l.mu.Unlock() }
