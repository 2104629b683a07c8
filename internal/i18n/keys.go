// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthWrongScope   = "auth.wrong_scope"
	KeyAuthLogout       = "auth.logout_success"
	KeyAccessDenied     = "auth.access_denied"

	// Requests
	KeyRequestSubmitted   = "request.submitted"
	KeyRequestResubmitted = "request.resubmitted"
	KeyRequestNotFound    = "request.not_found"
	KeyRequestNotOwner    = "request.not_owner"
	KeyActionNotOffered   = "request.action_not_offered"
	KeyActionUnknown      = "request.action_unknown"
	KeyTransitionDone     = "request.transition_done"

	// Workflow fallbacks
	KeyStatusInProgress = "status.hint.in_progress"

	// Documents
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationTitle    = "notification.status_changed.title"
	KeyNotificationMessage  = "notification.status_changed.message"

	// Backend
	KeyBackendMalformed   = "backend.malformed_response"
	KeyBackendUnavailable = "backend.unavailable"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)

// StatusLabelKey is the translation key of a status label.
func StatusLabelKey(code string) string { return "status." + code }

// StatusHintKey is the translation key of a status next-step hint.
func StatusHintKey(code string) string { return "status.hint." + code }

// LicenseTypeKey is the translation key of a license type label.
func LicenseTypeKey(code string) string { return "license_type." + code }
