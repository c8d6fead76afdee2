package services

import (
	"github.com/nimasrn/bizledger/internal/repository"
	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// mapRepoErr turns repository sentinels into service errors and adds op as
// context to anything unexpected.
func mapRepoErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	}
	return errors.Wrap(err, op)
}
