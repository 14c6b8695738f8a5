package services

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func gmailErr(code int, reasons ...string) error {
	e := &googleapi.Error{Code: code}
	for _, r := range reasons {
		e.Errors = append(e.Errors, googleapi.ErrorItem{Reason: r})
	}
	return e
}

func TestIsAuthErrorBare401(t *testing.T) {
	if !isAuthError(gmailErr(401)) {
		t.Error("401 should be a credential rejection")
	}
}

func TestIsAuthErrorQuota403IsProviderFailure(t *testing.T) {
	// Rate-limit 403s are transient; they must never invalidate the
	// session and strand the watcher until a fresh OAuth flow.
	for _, reason := range []string{"rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded"} {
		if isAuthError(gmailErr(403, reason)) {
			t.Errorf("403 %s treated as credential rejection", reason)
		}
	}
	if isAuthError(gmailErr(403)) {
		t.Error("bare 403 with no reason treated as credential rejection")
	}
}

func TestIsAuthErrorRevoked403(t *testing.T) {
	for _, reason := range []string{"authError", "insufficientPermissions", "accessNotConfigured"} {
		if !isAuthError(gmailErr(403, reason)) {
			t.Errorf("403 %s should be a credential rejection", reason)
		}
	}
	// Mixed items: one revocation reason among quota noise still counts.
	if !isAuthError(gmailErr(403, "rateLimitExceeded", "authError")) {
		t.Error("403 with authError among other reasons should be a credential rejection")
	}
}

func TestIsAuthErrorOtherCodes(t *testing.T) {
	if isAuthError(gmailErr(404)) {
		t.Error("404 is not a credential rejection")
	}
	if isAuthError(gmailErr(500)) {
		t.Error("500 is not a credential rejection")
	}
	if isAuthError(errors.New("connection refused")) {
		t.Error("plain error is not a credential rejection")
	}
}

func TestIsAuthErrorSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("list messages: %w", gmailErr(401))
	if !isAuthError(wrapped) {
		t.Error("wrapped 401 should still be a credential rejection")
	}
}
