package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cor0nius/cityreg/internal/citymatch"
	"github.com/cor0nius/cityreg/internal/clock"
	"github.com/cor0nius/cityreg/internal/database"
)

// --- Mocks ---

// mockQuerier is a func-field mock for dbQuerier. It fails the test if a
// method without a configured func is called.
type mockQuerier struct {
	t *testing.T

	CountCitiesFunc                func(ctx context.Context) ([]database.CountCitiesRow, error)
	CountCitiesByEventFunc         func(ctx context.Context, eventID string) ([]database.CountCitiesByEventRow, error)
	CountRegistrationsPerEventFunc func(ctx context.Context) ([]database.CountRegistrationsPerEventRow, error)
	CreateEventFunc                func(ctx context.Context, arg database.CreateEventParams) (database.Event, error)
	CreateRegistrationFunc         func(ctx context.Context, arg database.CreateRegistrationParams) (database.Registration, error)
	DeleteAttemptFunc              func(ctx context.Context, arg database.DeleteAttemptParams) error
	DeleteAttemptsBeforeFunc       func(ctx context.Context, startedAt time.Time) (int64, error)
	DeleteEventFunc                func(ctx context.Context, id string) (int64, error)
	EnsureEventFunc                func(ctx context.Context, arg database.EnsureEventParams) error
	GetEventFunc                   func(ctx context.Context, id string) (database.Event, error)
	GetRegistrationFunc            func(ctx context.Context, arg database.GetRegistrationParams) (database.Registration, error)
	ListEventsWithCountsFunc       func(ctx context.Context) ([]database.ListEventsWithCountsRow, error)
	ListRegistrationsFunc          func(ctx context.Context) ([]database.Registration, error)
	ListRegistrationsByEventFunc   func(ctx context.Context, eventID string) ([]database.Registration, error)
	RegistrationExistsFunc         func(ctx context.Context, arg database.RegistrationExistsParams) (bool, error)
	ToggleEventActiveFunc          func(ctx context.Context, id string) (database.Event, error)
	UpsertAttemptFunc              func(ctx context.Context, arg database.UpsertAttemptParams) error
}

func (m *mockQuerier) fail(method string) {
	m.t.Fatalf("unexpected call to mockQuerier method: %s", method)
}

func (m *mockQuerier) CountCities(ctx context.Context) ([]database.CountCitiesRow, error) {
	if m.CountCitiesFunc != nil {
		return m.CountCitiesFunc(ctx)
	}
	m.fail("CountCities")
	return nil, nil
}

func (m *mockQuerier) CountCitiesByEvent(ctx context.Context, eventID string) ([]database.CountCitiesByEventRow, error) {
	if m.CountCitiesByEventFunc != nil {
		return m.CountCitiesByEventFunc(ctx, eventID)
	}
	m.fail("CountCitiesByEvent")
	return nil, nil
}

func (m *mockQuerier) CountRegistrationsPerEvent(ctx context.Context) ([]database.CountRegistrationsPerEventRow, error) {
	if m.CountRegistrationsPerEventFunc != nil {
		return m.CountRegistrationsPerEventFunc(ctx)
	}
	m.fail("CountRegistrationsPerEvent")
	return nil, nil
}

func (m *mockQuerier) CreateEvent(ctx context.Context, arg database.CreateEventParams) (database.Event, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, arg)
	}
	m.fail("CreateEvent")
	return database.Event{}, nil
}

func (m *mockQuerier) CreateRegistration(ctx context.Context, arg database.CreateRegistrationParams) (database.Registration, error) {
	if m.CreateRegistrationFunc != nil {
		return m.CreateRegistrationFunc(ctx, arg)
	}
	m.fail("CreateRegistration")
	return database.Registration{}, nil
}

func (m *mockQuerier) DeleteAttempt(ctx context.Context, arg database.DeleteAttemptParams) error {
	if m.DeleteAttemptFunc != nil {
		return m.DeleteAttemptFunc(ctx, arg)
	}
	m.fail("DeleteAttempt")
	return nil
}

func (m *mockQuerier) DeleteAttemptsBefore(ctx context.Context, startedAt time.Time) (int64, error) {
	if m.DeleteAttemptsBeforeFunc != nil {
		return m.DeleteAttemptsBeforeFunc(ctx, startedAt)
	}
	m.fail("DeleteAttemptsBefore")
	return 0, nil
}

func (m *mockQuerier) DeleteEvent(ctx context.Context, id string) (int64, error) {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, id)
	}
	m.fail("DeleteEvent")
	return 0, nil
}

func (m *mockQuerier) EnsureEvent(ctx context.Context, arg database.EnsureEventParams) error {
	if m.EnsureEventFunc != nil {
		return m.EnsureEventFunc(ctx, arg)
	}
	m.fail("EnsureEvent")
	return nil
}

func (m *mockQuerier) GetEvent(ctx context.Context, id string) (database.Event, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, id)
	}
	m.fail("GetEvent")
	return database.Event{}, nil
}

func (m *mockQuerier) GetRegistration(ctx context.Context, arg database.GetRegistrationParams) (database.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, arg)
	}
	m.fail("GetRegistration")
	return database.Registration{}, nil
}

func (m *mockQuerier) ListEventsWithCounts(ctx context.Context) ([]database.ListEventsWithCountsRow, error) {
	if m.ListEventsWithCountsFunc != nil {
		return m.ListEventsWithCountsFunc(ctx)
	}
	m.fail("ListEventsWithCounts")
	return nil, nil
}

func (m *mockQuerier) ListRegistrations(ctx context.Context) ([]database.Registration, error) {
	if m.ListRegistrationsFunc != nil {
		return m.ListRegistrationsFunc(ctx)
	}
	m.fail("ListRegistrations")
	return nil, nil
}

func (m *mockQuerier) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]database.Registration, error) {
	if m.ListRegistrationsByEventFunc != nil {
		return m.ListRegistrationsByEventFunc(ctx, eventID)
	}
	m.fail("ListRegistrationsByEvent")
	return nil, nil
}

func (m *mockQuerier) RegistrationExists(ctx context.Context, arg database.RegistrationExistsParams) (bool, error) {
	if m.RegistrationExistsFunc != nil {
		return m.RegistrationExistsFunc(ctx, arg)
	}
	m.fail("RegistrationExists")
	return false, nil
}

func (m *mockQuerier) ToggleEventActive(ctx context.Context, id string) (database.Event, error) {
	if m.ToggleEventActiveFunc != nil {
		return m.ToggleEventActiveFunc(ctx, id)
	}
	m.fail("ToggleEventActive")
	return database.Event{}, nil
}

func (m *mockQuerier) UpsertAttempt(ctx context.Context, arg database.UpsertAttemptParams) error {
	if m.UpsertAttemptFunc != nil {
		return m.UpsertAttemptFunc(ctx, arg)
	}
	m.fail("UpsertAttempt")
	return nil
}

// --- Fixtures ---

const testAdminID int64 = 1001

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type testAPIConfig struct {
	*apiConfig
	mockDB *mockQuerier
}

// newTestAPIConfig returns a config wired to a mockQuerier, in-memory sessions,
// a fixed clock and a small catalog. The registration service is built on top.
func newTestAPIConfig(t *testing.T) *testAPIConfig {
	t.Helper()
	mockDB := &mockQuerier{t: t}
	cfg := &apiConfig{
		dbQueries:        mockDB,
		sessions:         NewMemorySessionStore(time.Hour),
		catalog:          citymatch.NewCatalog([]string{"Moscow", "Tomsk", "Omsk"}),
		clock:            clock.NewFixed(testNow),
		fuzzyMaxDistance: citymatch.DefaultMaxDistance,
		botUsername:      "cityreg_bot",
		admins:           map[int64]struct{}{testAdminID: {}},
		attemptTTL:       168 * time.Hour,
		statsTopN:        2,
		port:             "8080",
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cfg.registrations = cfg.newRegistrationService(citymatch.NewResolver(cfg.catalog))
	return &testAPIConfig{apiConfig: cfg, mockDB: mockDB}
}
