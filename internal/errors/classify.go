package errors

import (
	"errors"
	"syscall"
)

// Category groups errors for metrics and exit handling.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryUser
	CategorySystem
	CategoryRecoverable
)

func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

var userSentinels = []error{
	ErrNoCurrentCard, ErrEmptyPool, ErrExerciseNotFound, ErrInvalidDifficulty,
	ErrInvalidInterval, ErrInvalidTimestamp, ErrInvalidURL, ErrInvalidSetting,
	ErrNotSignedIn, ErrUserNotFound, ErrTeamNotFound, ErrInvalidInviteCode,
	ErrAlreadyMember, ErrNotMember, ErrRemindersDisabled,
}

// Classify determines the category of an error. Typed errors win over
// sentinels, and sentinels win over raw errno values.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case IsUserError(err):
		return CategoryUser
	case IsSystemError(err):
		return CategorySystem
	case IsRecoverableError(err):
		return CategoryRecoverable
	}

	for _, s := range userSentinels {
		if errors.Is(err, s) {
			return CategoryUser
		}
	}
	if errors.Is(err, ErrDatabaseCorrupted) || errors.Is(err, ErrPermissionDenied) {
		return CategorySystem
	}
	if errors.Is(err, ErrNetworkUnavailable) || errors.Is(err, ErrTimeout) {
		return CategoryRecoverable
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.ENOENT, syscall.EIO, syscall.EROFS:
			return CategorySystem
		case syscall.EAGAIN, syscall.EINTR, syscall.ETIMEDOUT, syscall.ECONNREFUSED, syscall.ECONNRESET:
			return CategoryRecoverable
		}
	}
	return CategoryUnknown
}

// IsTransient reports whether retrying err may succeed.
func IsTransient(err error) bool {
	return Classify(err) == CategoryRecoverable
}
