package notifications

import "errors"

// Sentinel errors for the notifications module.
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrRecipientExists   = errors.New("recipient already exists")
)
