package services

import (
	"testing"

	"jobtrail/internal/models"
)

func job(id uint, company, status string) models.TrackedJob {
	return models.TrackedJob{ID: id, CompanyName: company, Status: status}
}

func TestMatchTrackedJobsBidirectionalSubstring(t *testing.T) {
	jobs := []models.TrackedJob{
		job(1, "Acme", models.StatusApplied),
		job(2, "Amazon Web Services", models.StatusApplied),
		job(3, "Globex", models.StatusApplied),
	}

	// Key contained in the company name.
	if got := MatchTrackedJobs("amazon", jobs); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("MatchTrackedJobs(amazon) = %v, want job 2", got)
	}

	// Company name contained in the key.
	if got := MatchTrackedJobs("acmecorp", jobs); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("MatchTrackedJobs(acmecorp) = %v, want job 1", got)
	}

	if got := MatchTrackedJobs("unknowncorp", jobs); len(got) != 0 {
		t.Errorf("MatchTrackedJobs(unknowncorp) = %v, want none", got)
	}
}

func TestMatchTrackedJobsMultipleMatches(t *testing.T) {
	jobs := []models.TrackedJob{
		job(1, "Amazon", models.StatusApplied),
		job(2, "Amazon Web Services", models.StatusApplied),
	}

	got := MatchTrackedJobs("amazon", jobs)
	if len(got) != 2 {
		t.Fatalf("MatchTrackedJobs(amazon) matched %d jobs, want 2", len(got))
	}
}

func TestMatchTrackedJobsShortKeySkipped(t *testing.T) {
	jobs := []models.TrackedJob{job(1, "Go", models.StatusApplied)}
	if got := MatchTrackedJobs("go", jobs); len(got) != 0 {
		t.Errorf("two-letter key should not match anything, got %v", got)
	}
}

func TestMatchTrackedJobsShortNameSkipped(t *testing.T) {
	// A two-letter company name hides inside most keys; it must not
	// match via the key-contains-name direction either.
	jobs := []models.TrackedJob{
		job(1, "Go", models.StatusApplied),
		job(2, "X", models.StatusApplied),
	}
	if got := MatchTrackedJobs("google", jobs); len(got) != 0 {
		t.Errorf("short company names matched key google: %v", got)
	}
	if got := MatchTrackedJobs("xerox", jobs); len(got) != 0 {
		t.Errorf("short company names matched key xerox: %v", got)
	}
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		current, suggested string
		want               bool
	}{
		{models.StatusApplied, models.StatusInterviewing, true},
		{models.StatusSaved, models.StatusRejected, true},
		{models.StatusInterviewing, models.StatusInterviewing, false}, // idempotent
		{models.StatusRejected, models.StatusInterviewing, false},    // terminal
		{models.StatusOffered, models.StatusRejected, false},         // terminal
		{models.StatusApplied, "", false},                            // nothing suggested
	}

	for _, tc := range cases {
		if got := transitionAllowed(tc.current, tc.suggested); got != tc.want {
			t.Errorf("transitionAllowed(%s, %s) = %v, want %v", tc.current, tc.suggested, got, tc.want)
		}
	}
}

func TestPlanReconcileAppliesThenNoOps(t *testing.T) {
	update := models.EmailUpdate{
		CompanyKey:      "acme",
		Verdict:         VerdictPositive,
		SuggestedStatus: models.StatusInterviewing,
	}
	jobs := []models.TrackedJob{job(1, "Acme", models.StatusApplied)}

	plan := PlanReconcile(&update, jobs)
	if len(plan) != 1 || plan[0].ID != 1 {
		t.Fatalf("first plan = %v, want job 1", plan)
	}

	// Same update against the already-transitioned job is a no-op.
	jobs[0].Status = models.StatusInterviewing
	if again := PlanReconcile(&update, jobs); len(again) != 0 {
		t.Errorf("second plan = %v, want empty (idempotence)", again)
	}
}

func TestPlanReconcileNeverLeavesTerminal(t *testing.T) {
	jobs := []models.TrackedJob{
		job(1, "Acme", models.StatusRejected),
		job(2, "Globex", models.StatusOffered),
	}

	for _, suggested := range []string{models.StatusInterviewing, models.StatusOffered, models.StatusRejected} {
		update := models.EmailUpdate{CompanyKey: "acme", SuggestedStatus: suggested}
		if plan := PlanReconcile(&update, jobs); len(plan) != 0 {
			t.Errorf("terminal job planned for %s: %v", suggested, plan)
		}
		update = models.EmailUpdate{CompanyKey: "globex", SuggestedStatus: suggested}
		if plan := PlanReconcile(&update, jobs); len(plan) != 0 {
			t.Errorf("terminal job planned for %s: %v", suggested, plan)
		}
	}
}

func TestPlanReconcileZeroMatchesIsNoOp(t *testing.T) {
	update := models.EmailUpdate{CompanyKey: "initech", SuggestedStatus: models.StatusRejected}
	jobs := []models.TrackedJob{job(1, "Acme", models.StatusApplied)}

	if plan := PlanReconcile(&update, jobs); len(plan) != 0 {
		t.Errorf("unmatched update planned %v, want nothing", plan)
	}
}

func TestPlanReconcileMultipleMatchesIndependent(t *testing.T) {
	update := models.EmailUpdate{CompanyKey: "amazon", SuggestedStatus: models.StatusInterviewing}
	jobs := []models.TrackedJob{
		job(1, "Amazon", models.StatusApplied),
		job(2, "Amazon Web Services", models.StatusRejected), // terminal, left alone
		job(3, "Amazon", models.StatusInterviewing),          // already there, no-op
	}

	plan := PlanReconcile(&update, jobs)
	if len(plan) != 1 || plan[0].ID != 1 {
		t.Errorf("plan = %v, want only job 1", plan)
	}
}
