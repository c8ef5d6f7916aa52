package models

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Ticket lifecycle rules.
	ErrAlreadyAssigned = errors.New("ticket already assigned")
	ErrNoAssignee      = errors.New("ticket has no assignee")
	ErrAlreadyRated    = errors.New("ticket already rated")
	ErrNotConcluded    = errors.New("ticket not concluded yet")
	ErrNotCreator      = errors.New("only the ticket creator can rate it")

	// User management.
	ErrEmailTaken = errors.New("email already registered")
	ErrLastAdmin  = errors.New("cannot delete the last admin")
	ErrNotAdmin   = errors.New("admin role required")

	// Sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid confirmation token")

	// Inventory.
	ErrPatrimonyTaken = errors.New("patrimony number already registered")

	// Bootstrap.
	ErrAlreadySetUp = errors.New("system already has users")
)
