package models

// AuthErrorCode discriminates the failure paths of session-manager
// operations. The manager never lets an error escape its boundary; callers
// always receive a result value carrying one of these codes.
type AuthErrorCode string

const (
	AuthErrNone                 AuthErrorCode = ""
	AuthErrNotFound             AuthErrorCode = "user_not_found"
	AuthErrInactive             AuthErrorCode = "user_inactive"
	AuthErrBadCredentials       AuthErrorCode = "bad_credentials"
	AuthErrWrongCurrentPassword AuthErrorCode = "wrong_current_password"
	AuthErrAlreadyExists        AuthErrorCode = "username_taken"
	AuthErrNetworkFailure       AuthErrorCode = "network_failure"
	AuthErrNotAuthenticated     AuthErrorCode = "not_authenticated"
	AuthErrInvalidData          AuthErrorCode = "invalid_data"
)

// LoginResult is the discriminated outcome of SessionManager.Login.
type LoginResult struct {
	Success bool
	Error   AuthErrorCode

	// Message is a user-presentable description of the failure, suitable for
	// inline form display.
	Message string

	// User is the merged account snapshot on success.
	User User
}

// OpResult is the outcome of non-login session-manager operations
// (password change, user creation).
type OpResult struct {
	Success bool
	Error   AuthErrorCode
	Message string
}
