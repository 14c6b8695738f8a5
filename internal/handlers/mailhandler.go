package handlers

import (
	"errors"
	"net/http"

	"jobtrail/internal/auth"
	"jobtrail/internal/dtos"
	"jobtrail/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type MailHandler struct {
	OAuth        *oauth2.Config
	Sessions     *services.SessionService
	EmailService *services.EmailService
}

func NewMailHandler(oauthCfg *oauth2.Config, sessions *services.SessionService, email *services.EmailService) *MailHandler {
	return &MailHandler{
		OAuth:        oauthCfg,
		Sessions:     sessions,
		EmailService: email,
	}
}

// ConnectURL is the GET /mailbox/connect endpoint: hand the frontend the
// Google consent URL.
func (h *MailHandler) ConnectURL(c *gin.Context) {
	if h.OAuth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Mailbox integration disabled: no OAuth credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": auth.AuthorizationURL(h.OAuth)})
}

// Callback is the POST /mailbox/callback endpoint: exchange the consent
// code, store the session, and kick off the scan schedule.
func (h *MailHandler) Callback(c *gin.Context) {
	if h.OAuth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Mailbox integration disabled: no OAuth credentials"})
		return
	}

	var req dtos.ConnectCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	tok, err := auth.ExchangeCode(c.Request.Context(), h.OAuth, req.Code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Authorization failed: " + err.Error()})
		return
	}

	owner := currentOwner(c)
	if _, err := h.Sessions.Connect(owner, tok); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session: " + err.Error()})
		return
	}

	h.EmailService.StartWatcher(owner)
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// Status is the GET /mailbox endpoint: connected or not.
func (h *MailHandler) Status(c *gin.Context) {
	_, err := h.Sessions.Get(currentOwner(c))
	if errors.Is(err, services.ErrNotConnected) {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// ScanNow is the POST /mailbox/scan endpoint: the user's "check now". One
// synchronous scan, updates returned to the caller, recurring timer left
// alone.
func (h *MailHandler) ScanNow(c *gin.Context) {
	updates, res, err := h.EmailService.TriggerScan(c.Request.Context(), currentOwner(c))
	switch {
	case errors.Is(err, services.ErrNotConnected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not connected"})
		return
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "reconnect required"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "check failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updates":         updates,
		"applied_count":   res.AppliedCount,
		"touched_job_ids": res.TouchedJobIDs,
	})
}
