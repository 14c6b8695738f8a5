package services

import (
	"errors"
	"fmt"
	"log"

	"jobtrail/internal/models"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// SessionService owns the MailboxSession lifecycle: created whole on a
// successful OAuth exchange, read on every scan, deleted whole when the
// provider rejects it. No partial updates.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Connect stores the freshly exchanged token as the owner's session,
// replacing any previous one.
func (s *SessionService) Connect(ownerID *uint, tok *oauth2.Token) (*models.MailboxSession, error) {
	// One session per owner; a reconnect replaces the old bundle outright.
	if err := s.deleteForOwner(ownerID); err != nil {
		return nil, fmt.Errorf("clear previous session: %w", err)
	}

	session := &models.MailboxSession{
		UserID:       ownerID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("store mailbox session: %w", err)
	}

	log.Println("[session] mailbox connected")
	return session, nil
}

// Get returns the owner's session, or ErrNotConnected.
func (s *SessionService) Get(ownerID *uint) (*models.MailboxSession, error) {
	var session models.MailboxSession
	q := s.DB
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	if err := q.First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConnected
		}
		return nil, fmt.Errorf("load mailbox session: %w", err)
	}
	return &session, nil
}

// Invalidate discards a rejected session; further scans report
// ErrNotConnected until the user reauthorizes.
func (s *SessionService) Invalidate(session *models.MailboxSession) {
	if err := s.DB.Delete(&models.MailboxSession{}, session.ID).Error; err != nil {
		log.Printf("[session] failed to discard session %d: %v", session.ID, err)
		return
	}
	log.Println("[session] mailbox disconnected, reconnect required")
}

func (s *SessionService) deleteForOwner(ownerID *uint) error {
	q := s.DB
	if ownerID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *ownerID)
	}
	return q.Delete(&models.MailboxSession{}).Error
}
