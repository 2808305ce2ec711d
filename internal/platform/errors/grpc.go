package errors

import (
	"errors"

	"github.com/louisbranch/muster/internal/platform/errors/i18n"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = i18n.BaseLocale

// HandleError converts domain errors to gRPC status for client responses.
// It formats the user-facing message using the i18n catalog for the given locale,
// defaulting to en-US if the locale is empty.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
		return appErr.ToGRPCStatus(catalog.Locale(), userMsg)
	}

	return status.Error(codes.Internal, "an unexpected error occurred")
}

// UserMessage renders the localized user-facing message for err. Non-domain
// errors render as a generic failure so internal details never reach users.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	if locale == "" {
		locale = DefaultLocale
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "an unexpected error occurred"
	}
	return i18n.GetCatalog(locale).Format(string(appErr.Code), appErr.Metadata)
}
