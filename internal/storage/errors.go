package storage

import "errors"

// Configuration errors.
var (
	ErrMissingHost     = errors.New("storage: database host is required")
	ErrMissingDatabase = errors.New("storage: database name is required")
	ErrMissingUsername = errors.New("storage: database username is required")
	ErrInvalidPort     = errors.New("storage: invalid database port")
)

// Connection errors.
var (
	ErrDatabaseClosed  = errors.New("storage: database connection is closed")
	ErrConnectionFailed = errors.New("storage: failed to connect to database")
)

// Data errors.
var (
	ErrDuplicateEntry      = errors.New("storage: duplicate entry")
	ErrInvalidLifecycle    = errors.New("storage: lifecycle invariant violated")
)
