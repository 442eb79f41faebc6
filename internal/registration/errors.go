package registration

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found or inactive")
	ErrAlreadyRegistered   = errors.New("user already registered for event")
	ErrStoreWrite          = errors.New("registration store write failed")
	ErrSessionStore        = errors.New("session store failed")
	ErrMalformedAction     = errors.New("malformed confirmation action")
	ErrConfirmationExpired = errors.New("confirmation is no longer pending")
)
