package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/cor0nius/cityreg/internal/citymatch"
	"github.com/cor0nius/cityreg/internal/clock"
	"github.com/google/uuid"
)

// Service runs the registration flow. Calls for the same user are serialized;
// calls for different users proceed independently.
type Service struct {
	store    Store
	events   EventLookup
	attempts AttemptRecorder
	sessions SessionStore
	resolver Resolver
	clock    clock.Clock
	logger   *slog.Logger
	observer Observer
	newID    func() string
	locks    *keyedMutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator replaces the generator of pending-confirmation ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(store Store, events EventLookup, attempts AttemptRecorder, sessions SessionStore, resolver Resolver, opts ...Option) *Service {
	s := &Service{
		store:    store,
		events:   events,
		attempts: attempts,
		sessions: sessions,
		resolver: resolver,
		clock:    clock.NewSystem(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
		newID:    func() string { return uuid.NewString() },
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start puts the user into the city prompt for eventID. An empty eventID
// targets the default event. A user who is already registered gets the
// existing registration back and no state changes.
func (s *Service) Start(ctx context.Context, user User, eventID string) (Outcome, error) {
	if eventID == "" {
		eventID = DefaultEventID
	}
	unlock := s.locks.Lock(user.ID)
	defer unlock()

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Outcome{}, fmt.Errorf("could not load event %s: %w", eventID, err)
	}
	if event == nil || !event.Active {
		s.logger.Warn("event not found or inactive", "event_id", eventID, "user_id", user.ID)
		return Outcome{}, ErrEventNotFound
	}

	if out, ok, err := s.existingRegistration(ctx, user.ID, eventID); err != nil || ok {
		return out, err
	}

	if err := s.attempts.RecordAttempt(ctx, user, eventID); err != nil {
		s.logger.Warn("could not record registration attempt", "user_id", user.ID, "event_id", eventID, "error", err)
	}

	session := Session{
		UserID:    user.ID,
		EventID:   eventID,
		State:     StateAwaitingCityInput,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	s.logger.Debug("awaiting city input", "user_id", user.ID, "event_id", eventID)

	return Outcome{Kind: OutcomeCityRequested, EventID: eventID, EventName: event.Name}, nil
}

// OnTextInput handles a text message sent while the user is registering for
// eventID. Messages from users who are not in that flow are ignored.
func (s *Service) OnTextInput(ctx context.Context, user User, eventID, text string) (Outcome, error) {
	unlock := s.locks.Lock(user.ID)
	defer unlock()

	if out, ok, err := s.existingRegistration(ctx, user.ID, eventID); err != nil || ok {
		return out, err
	}

	session, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if session == nil || session.EventID != eventID {
		return Outcome{Kind: OutcomeIgnored, EventID: eventID}, nil
	}
	return s.textInput(ctx, user, *session, text)
}

// HandleMessage is OnTextInput for transports that do not track the event:
// the event comes from the user's session.
func (s *Service) HandleMessage(ctx context.Context, user User, text string) (Outcome, error) {
	unlock := s.locks.Lock(user.ID)
	defer unlock()

	session, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if session == nil {
		s.logger.Debug("ignoring text outside registration flow", "user_id", user.ID)
		return Outcome{Kind: OutcomeIgnored}, nil
	}
	if out, ok, err := s.existingRegistration(ctx, user.ID, session.EventID); err != nil || ok {
		return out, err
	}
	return s.textInput(ctx, user, *session, text)
}

func (s *Service) textInput(ctx context.Context, user User, session Session, text string) (Outcome, error) {
	if session.State != StateAwaitingCityInput && session.State != StateAwaitingConfirmation {
		return Outcome{Kind: OutcomeIgnored, EventID: session.EventID}, nil
	}

	input := strings.TrimSpace(text)
	if utf8.RuneCountInString(input) < MinInputLength {
		return Outcome{Kind: OutcomeTooShort, EventID: session.EventID}, nil
	}

	if session.State == StateAwaitingConfirmation {
		// A fresh answer replaces the open suggestion; its buttons stop working.
		s.logger.Debug("new input replaces pending confirmation", "user_id", user.ID, "event_id", session.EventID)
	}

	verdict := s.resolver.Resolve(input)
	s.observer.Resolved(verdict.Kind)
	s.logger.Debug("city input resolved",
		"user_id", user.ID,
		"event_id", session.EventID,
		"input", input,
		"verdict", verdict.Kind,
		"city", verdict.City,
		"distance", verdict.Distance,
	)

	switch verdict.Kind {
	case citymatch.KindExact:
		return s.finalize(ctx, user, session, verdict.City, PathExact)
	case citymatch.KindFuzzy:
		return s.askConfirmation(ctx, session, input, verdict.City)
	default:
		return s.finalize(ctx, user, session, input, PathCustom)
	}
}

func (s *Service) askConfirmation(ctx context.Context, session Session, original, suggested string) (Outcome, error) {
	now := s.clock.Now()
	pending := &Pending{
		ID:        s.newID(),
		Original:  original,
		Suggested: suggested,
		CreatedAt: now,
	}
	session.State = StateAwaitingConfirmation
	session.Pending = pending
	session.UpdatedAt = now
	if err := s.sessions.Save(ctx, session); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}

	return Outcome{
		Kind:         OutcomeConfirmationNeeded,
		EventID:      session.EventID,
		Original:     original,
		Suggested:    suggested,
		ConfirmToken: EncodeAction(ActionConfirm, pending.ID),
		KeepToken:    EncodeAction(ActionKeep, pending.ID),
	}, nil
}

// OnConfirmationAction answers the suggestion that is pending for the user in
// eventID. accepted selects the suggested city, otherwise the original input
// is kept. original and suggested must match the pending suggestion.
func (s *Service) OnConfirmationAction(ctx context.Context, user User, eventID, original, suggested string, accepted bool) (Outcome, error) {
	unlock := s.locks.Lock(user.ID)
	defer unlock()

	if out, ok, err := s.existingRegistration(ctx, user.ID, eventID); err != nil || ok {
		return out, err
	}

	session, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if !isPendingFor(session, eventID) ||
		session.Pending.Original != original ||
		session.Pending.Suggested != suggested {
		return Outcome{}, ErrConfirmationExpired
	}
	return s.confirm(ctx, user, *session, accepted)
}

// HandleAction answers a suggestion from a button token built by EncodeAction.
func (s *Service) HandleAction(ctx context.Context, user User, token string) (Outcome, error) {
	action, id, err := DecodeAction(token)
	if err != nil {
		return Outcome{}, err
	}

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	session, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if session == nil || !isPendingFor(session, session.EventID) || session.Pending.ID != id {
		return Outcome{}, ErrConfirmationExpired
	}

	if out, ok, err := s.existingRegistration(ctx, user.ID, session.EventID); err != nil || ok {
		if ok {
			s.clearSession(ctx, user.ID, session.EventID)
		}
		return out, err
	}
	return s.confirm(ctx, user, *session, action == ActionConfirm)
}

func (s *Service) confirm(ctx context.Context, user User, session Session, accepted bool) (Outcome, error) {
	s.logger.Debug("typo confirmation",
		"user_id", user.ID,
		"event_id", session.EventID,
		"original", session.Pending.Original,
		"suggested", session.Pending.Suggested,
		"accepted", accepted,
	)
	if accepted {
		return s.finalize(ctx, user, session, session.Pending.Suggested, PathConfirmed)
	}
	return s.finalize(ctx, user, session, session.Pending.Original, PathKept)
}

// finalize writes the registration. On a failed write the session is left
// untouched so the same input or answer can be retried.
func (s *Service) finalize(ctx context.Context, user User, session Session, city string, path FinalizePath) (Outcome, error) {
	reg, err := s.store.Register(ctx, RegisterParams{
		User:         user,
		EventID:      session.EventID,
		City:         city,
		RegisteredAt: s.clock.Now(),
	})
	if errors.Is(err, ErrAlreadyRegistered) {
		existing, getErr := s.store.GetRegistration(ctx, user.ID, session.EventID)
		if getErr != nil || existing == nil {
			return Outcome{}, fmt.Errorf("could not load existing registration: %w", errors.Join(err, getErr))
		}
		s.clearSession(ctx, user.ID, session.EventID)
		return alreadyRegistered(*existing), nil
	}
	if errors.Is(err, ErrEventNotFound) {
		// The event was deleted mid-flow; retrying cannot succeed.
		s.logger.Warn("event removed during registration", "user_id", user.ID, "event_id", session.EventID)
		s.clearSession(ctx, user.ID, session.EventID)
		return Outcome{}, ErrEventNotFound
	}
	if err != nil {
		s.observer.StoreWriteFailed()
		s.logger.Error("could not write registration", "user_id", user.ID, "event_id", session.EventID, "city", city, "error", err)
		return Outcome{Kind: OutcomeStoreWriteError, EventID: session.EventID}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	s.clearSession(ctx, user.ID, session.EventID)
	if err := s.attempts.RemoveAttempt(ctx, user.ID, session.EventID); err != nil {
		s.logger.Warn("could not remove registration attempt", "user_id", user.ID, "event_id", session.EventID, "error", err)
	}
	s.observer.Finalized(path)
	s.logger.Info("registration completed", "user_id", user.ID, "event_id", session.EventID, "city", reg.City, "path", path)

	return Outcome{
		Kind:         OutcomeRegistrationComplete,
		EventID:      reg.EventID,
		City:         reg.City,
		RegisteredAt: reg.RegisteredAt,
	}, nil
}

func (s *Service) clearSession(ctx context.Context, userID int64, eventID string) {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.Warn("could not clear session", "user_id", userID, "event_id", eventID, "error", err)
	}
}

// existingRegistration reports the user's registration for eventID, if any.
func (s *Service) existingRegistration(ctx context.Context, userID int64, eventID string) (Outcome, bool, error) {
	registered, err := s.store.IsRegistered(ctx, userID, eventID)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("could not check registration: %w", err)
	}
	if !registered {
		return Outcome{}, false, nil
	}
	reg, err := s.store.GetRegistration(ctx, userID, eventID)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("could not load registration: %w", err)
	}
	if reg == nil {
		return Outcome{}, false, nil
	}
	s.logger.Debug("user already registered", "user_id", userID, "event_id", eventID, "city", reg.City)
	return alreadyRegistered(*reg), true, nil
}

func isPendingFor(session *Session, eventID string) bool {
	return session != nil &&
		session.EventID == eventID &&
		session.State == StateAwaitingConfirmation &&
		session.Pending != nil
}
