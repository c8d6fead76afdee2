package repository

import (
	"github.com/pkg/errors"
)

var (
	// ErrRecordNotFound is returned when no row matches the id (and owner, for scoped calls).
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrOwnerRequired  = errors.New("owner id is required")
)
