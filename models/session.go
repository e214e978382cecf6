package models

import "time"

// Session is the client-held proof of authentication. It is persisted as a
// single JSON blob in the local session file and refreshed on every tracked
// user interaction.
//
// Invariant: ExpiresAt always equals LastActivity plus the configured session
// timeout at the moment of any activity-driven refresh. A session whose
// current time is past ExpiresAt is invalid and must be discarded, with no
// grace margin.
type Session struct {
	// User is a full snapshot of the authenticated account, including the
	// merged professional profile when one applies.
	User User `json:"user"`

	LastActivity time.Time `json:"lastActivity"`
	ExpiresAt    time.Time `json:"expiresAt"`

	// Token is an HS256 JWT issued at login and re-issued on every activity
	// refresh with exp equal to ExpiresAt. A session blob whose token does
	// not verify is rejected at restore time.
	Token string `json:"token,omitempty"`
}

// Expired reports whether the session is past its expiry at the given
// instant. The boundary itself is still valid; one millisecond past is not.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
