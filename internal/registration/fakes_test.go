package registration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cor0nius/cityreg/internal/citymatch"
	"github.com/cor0nius/cityreg/internal/clock"
)

// --- Fakes ---

type regKey struct {
	userID  int64
	eventID string
}

// fakeStore is an in-memory Store that records every Register call.
type fakeStore struct {
	mu            sync.Mutex
	registrations map[regKey]Registration
	registerCalls []RegisterParams
	registerErr   error
	isRegErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{registrations: make(map[regKey]Registration)}
}

func (f *fakeStore) IsRegistered(ctx context.Context, userID int64, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isRegErr != nil {
		return false, f.isRegErr
	}
	_, ok := f.registrations[regKey{userID, eventID}]
	return ok, nil
}

func (f *fakeStore) Register(ctx context.Context, arg RegisterParams) (Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls = append(f.registerCalls, arg)
	if f.registerErr != nil {
		return Registration{}, f.registerErr
	}
	key := regKey{arg.User.ID, arg.EventID}
	if _, ok := f.registrations[key]; ok {
		return Registration{}, ErrAlreadyRegistered
	}
	reg := Registration{
		UserID:       arg.User.ID,
		EventID:      arg.EventID,
		Username:     arg.User.Username,
		FirstName:    arg.User.FirstName,
		LastName:     arg.User.LastName,
		City:         arg.City,
		RegisteredAt: arg.RegisteredAt,
	}
	f.registrations[key] = reg
	return reg, nil
}

func (f *fakeStore) GetRegistration(ctx context.Context, userID int64, eventID string) (*Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.registrations[regKey{userID, eventID}]
	if !ok {
		return nil, nil
	}
	return &reg, nil
}

func (f *fakeStore) calls() []RegisterParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RegisterParams, len(f.registerCalls))
	copy(out, f.registerCalls)
	return out
}

type fakeEvents map[string]*Event

func (f fakeEvents) GetEvent(ctx context.Context, id string) (*Event, error) {
	return f[id], nil
}

type fakeAttempts struct {
	mu       sync.Mutex
	recorded map[regKey]User
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{recorded: make(map[regKey]User)}
}

func (f *fakeAttempts) RecordAttempt(ctx context.Context, user User, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded[regKey{user.ID, eventID}] = user
	return nil
}

func (f *fakeAttempts) RemoveAttempt(ctx context.Context, userID int64, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recorded, regKey{userID, eventID})
	return nil
}

func (f *fakeAttempts) has(userID int64, eventID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.recorded[regKey{userID, eventID}]
	return ok
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]Session
	saveErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[int64]Session)}
}

func (f *fakeSessions) Get(ctx context.Context, userID int64) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	return &s, nil
}

func (f *fakeSessions) Save(ctx context.Context, session Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[session.UserID] = session
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	return nil
}

type recordingObserver struct {
	mu          sync.Mutex
	verdicts    []citymatch.Kind
	paths       []FinalizePath
	writeErrors int
}

func (o *recordingObserver) Resolved(kind citymatch.Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts = append(o.verdicts, kind)
}

func (o *recordingObserver) Finalized(path FinalizePath) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paths = append(o.paths, path)
}

func (o *recordingObserver) StoreWriteFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writeErrors++
}

// --- Fixtures ---

const testEventID = "E"

var (
	testNow  = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	testUser = User{ID: 42, Username: "ivan", FirstName: "Ivan", LastName: "Petrov"}
)

type harness struct {
	svc      *Service
	store    *fakeStore
	sessions *fakeSessions
	attempts *fakeAttempts
	observer *recordingObserver
}

func newHarness() *harness {
	h := &harness{
		store:    newFakeStore(),
		sessions: newFakeSessions(),
		attempts: newFakeAttempts(),
		observer: &recordingObserver{},
	}
	events := fakeEvents{
		DefaultEventID: {ID: DefaultEventID, Name: "Default Event", Active: true},
		testEventID:    {ID: testEventID, Name: "Meetup", Active: true},
		"closed":       {ID: "closed", Name: "Closed", Active: false},
	}
	resolver := citymatch.NewResolver(citymatch.NewCatalog([]string{"Moscow", "Tomsk", "Omsk"}))

	seq := 0
	h.svc = NewService(h.store, events, h.attempts, h.sessions, resolver,
		WithClock(clock.NewFixed(testNow)),
		WithObserver(h.observer),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
		}),
	)
	return h
}
