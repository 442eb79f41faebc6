// Package registration drives a user through registering for an event: it asks
// for a city, resolves the answer against the city catalog and, when the answer
// looks like a typo, waits for the user to confirm or reject the suggestion
// before writing the registration.
package registration

import "time"

// DefaultEventID is the event targeted when a user starts without an invite payload.
const DefaultEventID = "default"

// MinInputLength is the shortest city input, in runes after trimming, that is resolved.
const MinInputLength = 2

// State is a step of the per-user registration flow.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingCityInput    State = "awaiting_city_input"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// User identifies the person talking to the bot, with the profile details
// stored alongside a registration.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy int64     `json:"created_by"`
	Active    bool      `json:"active"`
}

// Registration is a finalized sign-up for one event. City is either a catalog
// entry or exactly what the user typed.
type Registration struct {
	UserID       int64     `json:"user_id"`
	EventID      string    `json:"event_id"`
	Username     string    `json:"username,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	City         string    `json:"city"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RegisterParams struct {
	User         User
	EventID      string
	City         string
	RegisteredAt time.Time
}

// Pending is a suggestion waiting for a yes/no answer. ID is the opaque value
// carried by the action tokens; Original and Suggested never leave the server.
type Pending struct {
	ID        string    `json:"id"`
	Original  string    `json:"original"`
	Suggested string    `json:"suggested"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the flow state of one user. A user with no session is idle.
type Session struct {
	UserID    int64     `json:"user_id"`
	EventID   string    `json:"event_id"`
	State     State     `json:"state"`
	Pending   *Pending  `json:"pending,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
