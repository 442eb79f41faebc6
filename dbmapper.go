package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cor0nius/cityreg/internal/clock"
	"github.com/cor0nius/cityreg/internal/database"
	"github.com/cor0nius/cityreg/internal/registration"
)

// databaseEventToEvent converts a database.Event to a registration.Event.
func databaseEventToEvent(dbEvent database.Event) registration.Event {
	return registration.Event{
		ID:        dbEvent.ID,
		Name:      dbEvent.Name,
		CreatedAt: dbEvent.CreatedAt,
		CreatedBy: dbEvent.CreatedBy,
		Active:    dbEvent.Active,
	}
}

// databaseRegistrationToRegistration converts a database.Registration to a registration.Registration.
func databaseRegistrationToRegistration(dbReg database.Registration) registration.Registration {
	return registration.Registration{
		UserID:       dbReg.UserID,
		EventID:      dbReg.EventID,
		Username:     dbReg.Username,
		FirstName:    dbReg.FirstName,
		LastName:     dbReg.LastName,
		City:         dbReg.City,
		RegisteredAt: dbReg.RegisteredAt.UTC(),
	}
}

func registerParamsToCreateRegistrationParams(arg registration.RegisterParams) database.CreateRegistrationParams {
	return database.CreateRegistrationParams{
		UserID:       arg.User.ID,
		EventID:      arg.EventID,
		Username:     arg.User.Username,
		FirstName:    arg.User.FirstName,
		LastName:     arg.User.LastName,
		City:         arg.City,
		RegisteredAt: arg.RegisteredAt,
	}
}

// pgStore adapts the generated queries to the ports of the registration
// service: Store, EventLookup and AttemptRecorder.
type pgStore struct {
	db    dbQuerier
	clock clock.Clock
}

func (s *pgStore) IsRegistered(ctx context.Context, userID int64, eventID string) (bool, error) {
	return s.db.RegistrationExists(ctx, database.RegistrationExistsParams{UserID: userID, EventID: eventID})
}

func (s *pgStore) Register(ctx context.Context, arg registration.RegisterParams) (registration.Registration, error) {
	dbReg, err := s.db.CreateRegistration(ctx, registerParamsToCreateRegistrationParams(arg))
	if database.IsUniqueViolation(err) {
		return registration.Registration{}, registration.ErrAlreadyRegistered
	}
	if database.IsForeignKeyViolation(err) {
		return registration.Registration{}, registration.ErrEventNotFound
	}
	if err != nil {
		return registration.Registration{}, err
	}
	return databaseRegistrationToRegistration(dbReg), nil
}

func (s *pgStore) GetRegistration(ctx context.Context, userID int64, eventID string) (*registration.Registration, error) {
	dbReg, err := s.db.GetRegistration(ctx, database.GetRegistrationParams{UserID: userID, EventID: eventID})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	reg := databaseRegistrationToRegistration(dbReg)
	return &reg, nil
}

func (s *pgStore) GetEvent(ctx context.Context, id string) (*registration.Event, error) {
	dbEvent, err := s.db.GetEvent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	event := databaseEventToEvent(dbEvent)
	return &event, nil
}

func (s *pgStore) RecordAttempt(ctx context.Context, user registration.User, eventID string) error {
	err := s.db.UpsertAttempt(ctx, database.UpsertAttemptParams{
		UserID:    user.ID,
		EventID:   eventID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		StartedAt: s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("upsert attempt: %w", err)
	}
	return nil
}

func (s *pgStore) RemoveAttempt(ctx context.Context, userID int64, eventID string) error {
	err := s.db.DeleteAttempt(ctx, database.DeleteAttemptParams{UserID: userID, EventID: eventID})
	if err != nil {
		return fmt.Errorf("delete attempt: %w", err)
	}
	return nil
}
