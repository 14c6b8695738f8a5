package services

import (
	"testing"

	"jobtrail/internal/models"
)

func TestClassifyNegativeWinsOverPositive(t *testing.T) {
	// Both keyword sets present; rejection wording must win.
	c := Classify(
		"Update on your interview",
		"Unfortunately we will not be moving forward after your interview.",
		"hr@acme.io",
	)
	if c.Verdict != VerdictNegative {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictNegative)
	}
	if c.SuggestedStatus != models.StatusRejected {
		t.Errorf("suggested status = %s, want %s", c.SuggestedStatus, models.StatusRejected)
	}
}

func TestClassifyNoKeywordsIsNone(t *testing.T) {
	c := Classify("Your monthly newsletter", "Here is what happened this month.", "news@letters.com")
	if c.Verdict != VerdictNone {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictNone)
	}
	if c.SuggestedStatus != "" {
		t.Errorf("suggested status = %q, want empty", c.SuggestedStatus)
	}
}

func TestClassifySubjectAloneSuffices(t *testing.T) {
	c := Classify("Interview invitation — Acme Corp", "", "hr@acme.io")
	if c.Verdict != VerdictPositive {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictPositive)
	}
	if c.CompanyKey != "acme" {
		t.Errorf("company key = %q, want %q", c.CompanyKey, "acme")
	}
	if c.SuggestedStatus != models.StatusInterviewing {
		t.Errorf("suggested status = %s, want %s", c.SuggestedStatus, models.StatusInterviewing)
	}
}

func TestClassifyRejectionAnySender(t *testing.T) {
	c := Classify("Unfortunately, we have decided to move forward with other candidates", "", "no-reply@workday.com")
	if c.Verdict != VerdictNegative {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictNegative)
	}
	if c.SuggestedStatus != models.StatusRejected {
		t.Errorf("suggested status = %s, want %s", c.SuggestedStatus, models.StatusRejected)
	}
}

func TestClassifyOfferSuggestsOffered(t *testing.T) {
	c := Classify("Your offer from Globex", "We are excited to extend you an offer.", "people@globex.com")
	if c.Verdict != VerdictPositive {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictPositive)
	}
	if c.SuggestedStatus != models.StatusOffered {
		t.Errorf("suggested status = %s, want %s", c.SuggestedStatus, models.StatusOffered)
	}
}

func TestClassifyInterviewBeatsOfferWording(t *testing.T) {
	// "interview" and "offer" both present; the interview suggestion wins.
	c := Classify("Schedule your interview", "We would love to discuss the offer details during your interview.", "talent@initech.com")
	if c.SuggestedStatus != models.StatusInterviewing {
		t.Errorf("suggested status = %s, want %s", c.SuggestedStatus, models.StatusInterviewing)
	}
}

func TestClassifyPositiveAcknowledgmentOnly(t *testing.T) {
	c := Classify("Thanks for applying", "We are pleased to confirm we received your submission.", "jobs@hooli.com")
	if c.Verdict != VerdictPositive {
		t.Errorf("verdict = %s, want %s", c.Verdict, VerdictPositive)
	}
	if c.SuggestedStatus != "" {
		t.Errorf("suggested status = %q, want empty (acknowledgment only)", c.SuggestedStatus)
	}
}

func TestCompanyKeyFromSender(t *testing.T) {
	cases := []struct {
		sender string
		want   string
	}{
		{"hr@acme.io", "acme"},
		{"Stripe Recruiting <jobs@stripe.com>", "stripe"},
		{"TALENT@INITECH.COM", "initech"},
		{"recruiting@mail.globex.co.uk", "mail"},
		{"not-an-email", "not-an-email"},
		{"Somebody Somewhere", "somebody somewhere"},
	}

	for _, tc := range cases {
		got := CompanyKeyFromSender(tc.sender)
		if got != tc.want {
			t.Errorf("CompanyKeyFromSender(%q) = %q, want %q", tc.sender, got, tc.want)
		}
		// Deterministic: same header, same key.
		if again := CompanyKeyFromSender(tc.sender); again != got {
			t.Errorf("CompanyKeyFromSender(%q) not deterministic: %q then %q", tc.sender, got, again)
		}
	}
}
