package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cor0nius/cityreg/internal/database"
	"github.com/cor0nius/cityreg/internal/registration"
	_ "github.com/lib/pq"
)

// ConnectDB applies pending migrations, opens the Postgres pool and checks
// that it is reachable.
func (cfg *apiConfig) ConnectDB(ctx context.Context) (*sql.DB, error) {
	if err := database.Migrate(cfg.dbURL, cfg.logger); err != nil {
		return nil, fmt.Errorf("couldn't migrate database: %w", err)
	}

	db, err := sql.Open("postgres", cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't prepare connection to database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("couldn't connect to database: %w", err)
	}

	cfg.dbQueries = database.New(db)
	cfg.logger.Info("connected to database")
	return db, nil
}

// dbQuerier abstracts the sqlc-generated Queries so handlers, the scheduler
// and the registration store can be tested against a mock.
type dbQuerier interface {
	CountCities(ctx context.Context) ([]database.CountCitiesRow, error)
	CountCitiesByEvent(ctx context.Context, eventID string) ([]database.CountCitiesByEventRow, error)
	CountRegistrationsPerEvent(ctx context.Context) ([]database.CountRegistrationsPerEventRow, error)
	CreateEvent(ctx context.Context, arg database.CreateEventParams) (database.Event, error)
	CreateRegistration(ctx context.Context, arg database.CreateRegistrationParams) (database.Registration, error)
	DeleteAttempt(ctx context.Context, arg database.DeleteAttemptParams) error
	DeleteAttemptsBefore(ctx context.Context, startedAt time.Time) (int64, error)
	DeleteEvent(ctx context.Context, id string) (int64, error)
	EnsureEvent(ctx context.Context, arg database.EnsureEventParams) error
	GetEvent(ctx context.Context, id string) (database.Event, error)
	GetRegistration(ctx context.Context, arg database.GetRegistrationParams) (database.Registration, error)
	ListEventsWithCounts(ctx context.Context) ([]database.ListEventsWithCountsRow, error)
	ListRegistrations(ctx context.Context) ([]database.Registration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string) ([]database.Registration, error)
	RegistrationExists(ctx context.Context, arg database.RegistrationExistsParams) (bool, error)
	ToggleEventActive(ctx context.Context, id string) (database.Event, error)
	UpsertAttempt(ctx context.Context, arg database.UpsertAttemptParams) error
}

// ensureDefaultEvent creates the event that invite links without an event id
// point at. It is a no-op when the event already exists.
func (cfg *apiConfig) ensureDefaultEvent(ctx context.Context) error {
	err := cfg.dbQueries.EnsureEvent(ctx, database.EnsureEventParams{
		ID:        registration.DefaultEventID,
		Name:      "Default Event",
		CreatedAt: cfg.clock.Now(),
		CreatedBy: 0,
	})
	if err != nil {
		return fmt.Errorf("couldn't ensure default event: %w", err)
	}
	return nil
}
