// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster registration errors
	CodeRosterAlreadyRegistered       Code = "ROSTER_ALREADY_REGISTERED"
	CodeRosterMemberAlreadyRegistered Code = "ROSTER_MEMBER_ALREADY_REGISTERED"
	CodeRosterTeamFull                Code = "ROSTER_TEAM_FULL"
	CodeRosterNotCommander            Code = "ROSTER_NOT_COMMANDER"
	CodeRosterRecruitNotFound         Code = "ROSTER_RECRUIT_NOT_FOUND"
	CodeRosterProfileNotFound         Code = "ROSTER_PROFILE_NOT_FOUND"

	// Roster input errors
	CodeRosterInvalidFaction    Code = "ROSTER_INVALID_FACTION"
	CodeRosterInvalidPosition   Code = "ROSTER_INVALID_POSITION"
	CodeRosterCrewNameInvalid   Code = "ROSTER_CREW_NAME_INVALID"
	CodeRosterIdentityRequired  Code = "ROSTER_IDENTITY_REQUIRED"
	CodeRosterEventTitleMissing Code = "ROSTER_EVENT_TITLE_MISSING"

	// Roster lifecycle errors
	CodeRosterUnauthorized  Code = "ROSTER_UNAUTHORIZED"
	CodeRosterEventEnded    Code = "ROSTER_EVENT_ENDED"
	CodeRosterEventNotFound Code = "ROSTER_EVENT_NOT_FOUND"

	// Caller grant errors
	CodeCallerGrantInvalid Code = "CALLER_GRANT_INVALID"
	CodeCallerGrantExpired Code = "CALLER_GRANT_EXPIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeRosterInvalidFaction,
		CodeRosterInvalidPosition,
		CodeRosterCrewNameInvalid,
		CodeRosterIdentityRequired,
		CodeRosterEventTitleMissing:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeRosterTeamFull,
		CodeRosterEventEnded:
		return codes.FailedPrecondition

	// AlreadyExists - uniqueness constraint
	case CodeRosterAlreadyRegistered,
		CodeRosterMemberAlreadyRegistered:
		return codes.AlreadyExists

	// PermissionDenied - caller lacks the required role or capability
	case CodeRosterNotCommander,
		CodeRosterUnauthorized:
		return codes.PermissionDenied

	// Unauthenticated - caller identity could not be established
	case CodeCallerGrantInvalid,
		CodeCallerGrantExpired:
		return codes.Unauthenticated

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeRosterRecruitNotFound,
		CodeRosterProfileNotFound,
		CodeRosterEventNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
