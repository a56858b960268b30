package core

import "errors"

var (
	// ErrNoMoreEmails is returned when a user has been served every dataset record
	ErrNoMoreEmails = errors.New("no more emails")
	// ErrNotFound is returned by repositories when a key has no stored value
	ErrNotFound = errors.New("not found")
	// ErrRecipientNotAllowed is returned when a delivery targets a domain outside the allowlist
	ErrRecipientNotAllowed = errors.New("recipient domain not allowed")
)
