package domain

import (
	"strconv"

	apperrors "github.com/louisbranch/muster/internal/platform/errors"
)

var (
	// ErrAlreadyRegistered indicates the identity already occupies a position.
	ErrAlreadyRegistered = apperrors.New(apperrors.CodeRosterAlreadyRegistered, "identity is already registered")
	// ErrMemberAlreadyRegistered indicates a profile member is registered elsewhere.
	ErrMemberAlreadyRegistered = apperrors.New(apperrors.CodeRosterMemberAlreadyRegistered, "crew member is already registered")
	// ErrTeamFull indicates the faction has no empty crew slot.
	ErrTeamFull = apperrors.New(apperrors.CodeRosterTeamFull, "team has no free crew slots")
	// ErrNotCommander indicates a commander-only operation by someone else.
	ErrNotCommander = apperrors.New(apperrors.CodeRosterNotCommander, "caller does not command a crew")
	// ErrRecruitNotFound indicates the identity is not in the recruit pool.
	ErrRecruitNotFound = apperrors.New(apperrors.CodeRosterRecruitNotFound, "recruit is not in the pool")
	// ErrEventEnded indicates the roster is frozen.
	ErrEventEnded = apperrors.New(apperrors.CodeRosterEventEnded, "event has ended")
	// ErrInvalidFaction indicates an unknown faction.
	ErrInvalidFaction = apperrors.New(apperrors.CodeRosterInvalidFaction, "unknown faction")
	// ErrInvalidPosition indicates an unknown or non-editable crew position.
	ErrInvalidPosition = apperrors.New(apperrors.CodeRosterInvalidPosition, "invalid crew position")
	// ErrCrewNameInvalid indicates a crew name over the length limit.
	ErrCrewNameInvalid = apperrors.New(apperrors.CodeRosterCrewNameInvalid, "crew name is too long")
	// ErrIdentityRequired indicates a blank identity.
	ErrIdentityRequired = apperrors.New(apperrors.CodeRosterIdentityRequired, "identity is required")
)

func alreadyRegistered(identity string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterAlreadyRegistered,
		"identity "+identity+" is already registered",
		map[string]string{"Identity": identity})
}

func memberAlreadyRegistered(identity string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterMemberAlreadyRegistered,
		"crew member "+identity+" is already registered",
		map[string]string{"Identity": identity})
}

func teamFull(faction Faction) error {
	return apperrors.WithMetadata(apperrors.CodeRosterTeamFull,
		"team "+string(faction)+" has no free crew slots",
		map[string]string{"Faction": faction.Label()})
}

func invalidFaction(value string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterInvalidFaction,
		"unknown faction "+strconv.Quote(value),
		map[string]string{"Faction": value})
}

func invalidPosition(value string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterInvalidPosition,
		"invalid crew position "+strconv.Quote(value),
		map[string]string{"Position": value})
}

func recruitNotFound(identity string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterRecruitNotFound,
		"recruit "+identity+" is not in the pool",
		map[string]string{"Identity": identity})
}

// MemberIdentity returns the conflicting identity carried by a
// MemberAlreadyRegistered or AlreadyRegistered error.
func MemberIdentity(err error) string {
	return apperrors.GetMetadata(err)["Identity"]
}

func crewNameTooLong() error {
	return apperrors.WithMetadata(apperrors.CodeRosterCrewNameInvalid,
		"crew name exceeds "+strconv.Itoa(MaxCrewNameLength)+" characters",
		map[string]string{"MaxLength": strconv.Itoa(MaxCrewNameLength)})
}
