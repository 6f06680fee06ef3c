package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidTarget      = errors.New("exactly one of offer_id or formation_id must be set")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrInvalidRole        = errors.New("unknown role")
	ErrNotParticipant     = errors.New("user is not a participant of the conversation")
	ErrConversationExists = errors.New("conversation already exists for this pair")
	ErrProfileExists      = errors.New("user already owns a profile of this role")
)
