package registration

import (
	"context"

	"github.com/cor0nius/cityreg/internal/citymatch"
)

// Store persists registrations. Register returns ErrAlreadyRegistered when a
// registration for the same user and event already exists and
// ErrEventNotFound when the event is gone. GetRegistration returns nil, nil
// when there is none.
type Store interface {
	IsRegistered(ctx context.Context, userID int64, eventID string) (bool, error)
	Register(ctx context.Context, arg RegisterParams) (Registration, error)
	GetRegistration(ctx context.Context, userID int64, eventID string) (*Registration, error)
}

// EventLookup returns nil, nil for unknown events.
type EventLookup interface {
	GetEvent(ctx context.Context, id string) (*Event, error)
}

// AttemptRecorder tracks registrations that were started but not finished.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, user User, eventID string) error
	RemoveAttempt(ctx context.Context, userID int64, eventID string) error
}

// SessionStore keeps one Session per user. Get returns nil, nil when the user
// has no session.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, userID int64) error
}

type Resolver interface {
	Resolve(input string) citymatch.Verdict
}

// FinalizePath says how the city of a registration was chosen.
type FinalizePath string

const (
	PathExact     FinalizePath = "exact"
	PathCustom    FinalizePath = "custom"
	PathConfirmed FinalizePath = "confirmed"
	PathKept      FinalizePath = "kept"
)

// Observer receives flow events, typically to feed metrics.
type Observer interface {
	Resolved(kind citymatch.Kind)
	Finalized(path FinalizePath)
	StoreWriteFailed()
}

type nopObserver struct{}

func (nopObserver) Resolved(citymatch.Kind) {}
func (nopObserver) Finalized(FinalizePath)  {}
func (nopObserver) StoreWriteFailed()       {}
