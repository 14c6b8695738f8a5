package services

import (
	"errors"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNotConnected means no mailbox session exists for the owner.
	ErrNotConnected = errors.New("mailbox not connected")

	// ErrSessionExpired means the provider rejected the stored credential.
	// The session is discarded; the user has to reconnect.
	ErrSessionExpired = errors.New("mailbox session expired, reconnect required")
)

// isAuthError reports whether a Gmail API error is a credential rejection
// rather than an ordinary provider failure. Only a rejection may tear down
// the stored session.
func isAuthError(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	if gErr.Code == 401 {
		return true
	}
	if gErr.Code != 403 {
		return false
	}
	// A 403 is usually quota (rateLimitExceeded and friends), which is a
	// transient failure the next tick retries. Only reasons that mean the
	// grant itself is gone count as rejection.
	for _, item := range gErr.Errors {
		switch item.Reason {
		case "authError", "insufficientPermissions", "accessNotConfigured":
			return true
		}
	}
	return false
}
