package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a notification type on the bus.
type Kind string

const (
	KindRepositoryChanged  Kind = "repository.changed"
	KindStatusChanged      Kind = "status.changed"
	KindCommitsChanged     Kind = "commits.changed"
	KindOperationCompleted Kind = "operation.completed"
	KindAnalyticsReady     Kind = "analytics.ready"
)

// Event is a single notification. Payload is fully formed before publication;
// subscribers never observe a partially built value.
type Event struct {
	ID      uuid.UUID
	Kind    Kind
	At      time.Time
	Payload any
}

// RepositoryChanged is the payload for KindRepositoryChanged.
type RepositoryChanged struct {
	Path string
}

// OperationCompleted is the payload for KindOperationCompleted.
type OperationCompleted struct {
	Operation string
	Success   bool
	Message   string
}
