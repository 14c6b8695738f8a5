package services

import (
	"net/mail"
	"strings"

	"jobtrail/internal/models"
)

// Verdict values produced by Classify.
const (
	VerdictPositive = "POSITIVE"
	VerdictNegative = "NEGATIVE"
	VerdictNone     = "NONE"
)

// Fixed keyword sets, matched as case-insensitive substrings. Deliberately
// simple: no tokenizing or stemming, so a phrase like "we cannot schedule
// your interview" can misclassify. Accepted trade-off.
var positiveKeywords = []string{
	"interview",
	"schedule",
	"offer",
	"congratulations",
	"next step",
	"pleased to",
	"excited to",
	"assessment",
}

var negativeKeywords = []string{
	"unfortunately",
	"regret",
	"not selected",
	"other candidates",
	"not moving forward",
	"will not be moving",
	"no longer under consideration",
	"decided not to",
	"position has been filled",
}

// Classification is the outcome for a single message.
type Classification struct {
	Verdict         string
	CompanyKey      string
	SuggestedStatus string
}

// Classify inspects one message and decides whether it is a job-related
// signal. Pure function: no state, no I/O, so it stays unit-testable away
// from the Gmail client. The body is optional; the subject alone can carry
// the verdict.
func Classify(subject, body, sender string) Classification {
	haystack := strings.ToLower(subject) + " " + strings.ToLower(body)

	c := Classification{
		Verdict:    VerdictNone,
		CompanyKey: CompanyKeyFromSender(sender),
	}

	// Negative wins when both keyword sets are present: a rejection that
	// politely mentions "interview" is still a rejection.
	if containsAny(haystack, negativeKeywords) {
		c.Verdict = VerdictNegative
		c.SuggestedStatus = models.StatusRejected
		return c
	}

	if containsAny(haystack, positiveKeywords) {
		c.Verdict = VerdictPositive
		switch {
		case strings.Contains(haystack, "interview") || strings.Contains(haystack, "schedule"):
			c.SuggestedStatus = models.StatusInterviewing
		case strings.Contains(haystack, "offer"):
			c.SuggestedStatus = models.StatusOffered
		default:
			// Acknowledgment only; no status change to suggest.
		}
		return c
	}

	return c
}

// CompanyKeyFromSender normalizes a From header into a company token:
// the domain segment before the first dot, lowercased.
// e.g. "Stripe Recruiting <jobs@stripe.com>" -> "stripe"
// If nothing address-shaped can be extracted, the whole header is
// returned lowercased so the key is still deterministic.
func CompanyKeyFromSender(sender string) string {
	addr := sender
	if parsed, err := mail.ParseAddress(sender); err == nil {
		addr = parsed.Address
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return strings.ToLower(strings.TrimSpace(sender))
	}

	domain := addr[at+1:]
	if dot := strings.Index(domain, "."); dot > 0 {
		domain = domain[:dot]
	}
	domain = strings.TrimSpace(strings.Trim(domain, ">"))
	if domain == "" {
		return strings.ToLower(strings.TrimSpace(sender))
	}
	return strings.ToLower(domain)
}

func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
