package registration

import "time"

type OutcomeKind string

const (
	OutcomeCityRequested        OutcomeKind = "city_requested"
	OutcomeTooShort             OutcomeKind = "too_short"
	OutcomeRegistrationComplete OutcomeKind = "registration_complete"
	OutcomeConfirmationNeeded   OutcomeKind = "confirmation_needed"
	OutcomeAlreadyRegistered    OutcomeKind = "already_registered"
	OutcomeStoreWriteError      OutcomeKind = "store_write_error"
	OutcomeIgnored              OutcomeKind = "ignored"
)

// Outcome tells the transport what to show the user after an action.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	EventID      string      `json:"event_id,omitempty"`
	EventName    string      `json:"event_name,omitempty"`
	City         string      `json:"city,omitempty"`
	RegisteredAt time.Time   `json:"registered_at,omitzero"`
	Original     string      `json:"original,omitempty"`
	Suggested    string      `json:"suggested,omitempty"`
	ConfirmToken string      `json:"confirm_token,omitempty"`
	KeepToken    string      `json:"keep_token,omitempty"`
}

func alreadyRegistered(reg Registration) Outcome {
	return Outcome{
		Kind:         OutcomeAlreadyRegistered,
		EventID:      reg.EventID,
		City:         reg.City,
		RegisteredAt: reg.RegisteredAt,
	}
}
