package services

import (
	"testing"
	"time"

	"jobtrail/internal/models"
)

func TestPlanSaveCreatesWhenUntracked(t *testing.T) {
	if got := planSave(nil, ""); got != saveActionCreate {
		t.Errorf("planSave(nil) = %v, want create", got)
	}
	if got := planSave(nil, models.StatusApplied); got != saveActionCreate {
		t.Errorf("planSave(nil, APPLIED) = %v, want create", got)
	}
}

func TestPlanSaveDuplicateIsNoOp(t *testing.T) {
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	existing := &models.TrackedJob{
		ID:          1,
		ExternalID:  "job-123",
		Status:      models.StatusApplied,
		LastUpdated: at,
	}

	// Saving the same posting again with the same status writes nothing:
	// no second row, no LastUpdated bump.
	if got := planSave(existing, models.StatusApplied); got != saveActionNone {
		t.Errorf("duplicate save with same status = %v, want none", got)
	}
	if got := planSave(existing, ""); got != saveActionNone {
		t.Errorf("duplicate save with no status = %v, want none", got)
	}
	if !existing.LastUpdated.Equal(at) {
		t.Errorf("planning mutated LastUpdated: %v", existing.LastUpdated)
	}
}

func TestPlanSaveDuplicateWithNewStatusUpdates(t *testing.T) {
	existing := &models.TrackedJob{
		ID:         1,
		ExternalID: "job-123",
		Status:     models.StatusApplied,
	}

	if got := planSave(existing, models.StatusInterviewing); got != saveActionUpdateStatus {
		t.Errorf("duplicate save with changed status = %v, want status update", got)
	}
	// Never a create for an already-tracked external id.
	if got := planSave(existing, models.StatusInterviewing); got == saveActionCreate {
		t.Error("duplicate save must not create a second record")
	}
}
