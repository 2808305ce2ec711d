package engine

import (
	apperrors "github.com/louisbranch/muster/internal/platform/errors"
)

var (
	// ErrUnauthorized indicates the caller lacks an administrative capability.
	ErrUnauthorized = apperrors.New(apperrors.CodeRosterUnauthorized, "caller is not an administrator")
	// ErrEventNotFound indicates no open roster exists for the event.
	ErrEventNotFound = apperrors.New(apperrors.CodeRosterEventNotFound, "event not found")
	// ErrProfileNotFound indicates the caller commands no profile with that id.
	ErrProfileNotFound = apperrors.New(apperrors.CodeRosterProfileNotFound, "crew profile not found")
	// ErrEventTitleMissing indicates an event without a title.
	ErrEventTitleMissing = apperrors.New(apperrors.CodeRosterEventTitleMissing, "event title is required")
)

func eventNotFound(eventID string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterEventNotFound,
		"event "+eventID+" not found",
		map[string]string{"EventID": eventID})
}

func profileNotFound(profileID string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterProfileNotFound,
		"crew profile "+profileID+" not found",
		map[string]string{"ProfileID": profileID})
}
