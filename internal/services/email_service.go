package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync/atomic"
	"time"

	"jobtrail/internal/auth"
	"jobtrail/internal/models"
	"jobtrail/internal/scheduler"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

const (
	// Server-side pre-filter. Purely an optimization: the classifier
	// re-checks every message it is handed.
	scanQuery = "subject:(application OR interview OR offer OR update OR rejected OR status) newer_than:2d"

	scanMaxMessages  = 20
	scanFetchLimit   = 5 // per-message fetches in flight
	watcherDelay     = 10 * time.Second
	watcherInterval  = 30 * time.Minute
	scanCycleTimeout = 2 * time.Minute
)

type EmailService struct {
	DB         *gorm.DB
	OAuth      *oauth2.Config
	Sessions   *SessionService
	Reconciler *ReconcilerService

	watcherRunning atomic.Bool
}

func NewEmailService(db *gorm.DB, oauthCfg *oauth2.Config, sessions *SessionService, reconciler *ReconcilerService) *EmailService {
	return &EmailService{
		DB:         db,
		OAuth:      oauthCfg,
		Sessions:   sessions,
		Reconciler: reconciler,
	}
}

// StartWatcher begins the recurring scan loop: one scan shortly after the
// mailbox connection settles, then a fixed interval. The loop stops itself
// when the session disappears or the provider rejects it; reconnecting
// starts a fresh one. A second call while a loop is live is a no-op, so a
// reconnect can always call this safely. The stop path frees the slot
// before the loop goroutine returns, so a reconnect never loses its
// restart to a loop still winding down.
func (s *EmailService) StartWatcher(ownerID *uint) {
	if s.OAuth == nil {
		log.Println("Mailbox watcher disabled (no OAuth config). Check credentials.")
		return
	}
	if !s.watcherRunning.CompareAndSwap(false, true) {
		return
	}

	scheduler.Every(watcherDelay, watcherInterval, func() bool {
		return s.runScheduledScan(ownerID)
	}, func() {
		s.watcherRunning.Store(false)
	})
}

// runScheduledScan runs one scheduled cycle and reports whether the loop
// should stop. Transient provider failures are logged and retried on the
// next tick; there is no inner retry.
func (s *EmailService) runScheduledScan(ownerID *uint) (stop bool) {
	ctx, cancel := context.WithTimeout(context.Background(), scanCycleTimeout)
	defer cancel()

	log.Println("[watcher] starting scan cycle...")

	updates, res, err := s.TriggerScan(ctx, ownerID)
	switch {
	case err == nil:
		log.Printf("[watcher] scan ok: %d updates, %d applied", len(updates), res.AppliedCount)
		return false
	case errors.Is(err, ErrNotConnected):
		log.Println("[watcher] no mailbox session, stopping")
		return true
	case errors.Is(err, ErrSessionExpired):
		log.Println("[watcher] session expired, stopping until reconnect")
		return true
	default:
		log.Printf("[watcher] scan failed: %v", err)
		return false
	}
}

// TriggerScan runs one scan synchronously and reconciles its updates. This
// is the single entry point for both the schedule and the user's manual
// "check now"; the two may overlap in time, and correctness rests on the
// reconciler's idempotent conditional writes, not on serializing callers.
func (s *EmailService) TriggerScan(ctx context.Context, ownerID *uint) ([]models.EmailUpdate, ReconcileResult, error) {
	session, err := s.Sessions.Get(ownerID)
	if err != nil {
		return nil, ReconcileResult{}, err
	}

	updates, err := s.Scan(ctx, session)
	if err != nil {
		return nil, ReconcileResult{}, err
	}

	res, err := s.Reconciler.ReconcileAll(updates, ownerID)
	if err != nil {
		return updates, res, err
	}
	return updates, res, nil
}

// Scan lists recent candidate messages, fetches each in full, classifies
// them, and returns the surviving updates in listing order. A single
// malformed message never sinks the scan; only the listing call can.
func (s *EmailService) Scan(ctx context.Context, session *models.MailboxSession) ([]models.EmailUpdate, error) {
	if session == nil {
		return nil, ErrNotConnected
	}

	client, err := gmail.NewService(ctx, option.WithHTTPClient(auth.HTTPClient(ctx, s.OAuth, session)))
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}

	resp, err := client.Users.Messages.List("me").Q(scanQuery).MaxResults(scanMaxMessages).Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			s.Sessions.Invalidate(session)
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	full := s.fetchMessages(ctx, client, resp.Messages)

	var updates []models.EmailUpdate
	for _, msg := range full {
		if msg == nil {
			continue // fetch failed, skipped
		}
		if s.alreadyProcessed(msg.Id) {
			continue
		}

		update, ok := s.classifyMessage(msg)
		s.markProcessed(msg.Id)
		if !ok {
			continue
		}
		updates = append(updates, update)
	}

	return updates, nil
}

// fetchMessages pulls full message content with a bounded number of calls
// in flight. Results land in a slot per listing index, so the output keeps
// listing order no matter which fetch finishes first.
func (s *EmailService) fetchMessages(ctx context.Context, client *gmail.Service, headers []*gmail.Message) []*gmail.Message {
	full := make([]*gmail.Message, len(headers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanFetchLimit)

	for i, h := range headers {
		g.Go(func() error {
			msg, err := client.Users.Messages.Get("me", h.Id).Context(gctx).Do()
			if err != nil {
				log.Printf("[scan] fetch message %s failed, skipping: %v", h.Id, err)
				return nil
			}
			full[i] = msg
			return nil
		})
	}
	_ = g.Wait()

	return full
}

// classifyMessage turns one fetched message into an update record, or
// nothing when the verdict is none.
func (s *EmailService) classifyMessage(msg *gmail.Message) (models.EmailUpdate, bool) {
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	sender := headers["From"]
	body := getEmailBody(msg)

	c := Classify(subject, body, sender)
	if c.Verdict == VerdictNone {
		return models.EmailUpdate{}, false
	}

	shortSub := subject
	if len(shortSub) > 40 {
		shortSub = shortSub[:40] + "..."
	}
	log.Printf("[scan] verdict=%s suggested=%s company=%s [%s]", c.Verdict, c.SuggestedStatus, c.CompanyKey, shortSub)

	return models.EmailUpdate{
		CompanyKey:      c.CompanyKey,
		Verdict:         c.Verdict,
		SuggestedStatus: c.SuggestedStatus,
		Subject:         subject,
		Sender:          sender,
		Timestamp:       messageTime(msg, headers),
	}, true
}

func (s *EmailService) alreadyProcessed(messageID string) bool {
	var count int64
	s.DB.Model(&models.ProcessedEmail{}).Where("id = ?", messageID).Count(&count)
	return count > 0
}

func (s *EmailService) markProcessed(messageID string) {
	s.DB.Create(&models.ProcessedEmail{ID: messageID})
}

// --- HELPERS ---

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

func messageTime(msg *gmail.Message, headers map[string]string) time.Time {
	if msg.InternalDate > 0 {
		return time.UnixMilli(msg.InternalDate)
	}
	if ds := headers["Date"]; ds != "" {
		if t, err := mail.ParseDate(ds); err == nil {
			return t
		}
	}
	return time.Now()
}

// getEmailBody extracts a best-effort plaintext body: a text/plain part
// wins, then text/html stripped to text, then empty string.
func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data := decodeBody(msg.Payload.Body.Data)
		if strings.HasPrefix(msg.Payload.MimeType, "text/html") {
			return htmlToText(data)
		}
		return data
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			return decodeBody(part.Body.Data)
		}
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			return htmlToText(decodeBody(part.Body.Data))
		}
	}
	return ""
}

// Gmail serves base64url, sometimes unpadded.
func decodeBody(data string) string {
	if d, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(d)
	}
	if d, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(d)
	}
	return ""
}

func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
