package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"jobtrail/internal/models"

	"gorm.io/gorm"
)

type ReconcilerService struct {
	DB *gorm.DB
}

func NewReconcilerService(db *gorm.DB) *ReconcilerService {
	return &ReconcilerService{DB: db}
}

// ReconcileResult summarizes one reconcile pass.
type ReconcileResult struct {
	AppliedCount  int    `json:"applied_count"`
	TouchedJobIDs []uint `json:"touched_job_ids"`
}

// MatchTrackedJobs finds the jobs an update could refer to. Company names
// and sender domains are independently sourced strings, so matching is a
// bidirectional lowercase substring check, and several jobs may match
// ("Amazon" vs "Amazon Web Services"). Zero matches is the normal case for
// most emails, not an error.
func MatchTrackedJobs(companyKey string, jobs []models.TrackedJob) []models.TrackedJob {
	key := strings.ToLower(strings.TrimSpace(companyKey))
	if len(key) < 3 {
		// Too-short keys match everything; skip them like the company
		// matcher skips two-letter names.
		return nil
	}

	var out []models.TrackedJob
	for _, job := range jobs {
		name := strings.ToLower(strings.TrimSpace(job.CompanyName))
		// Same guard on the name side: "Go" would hide inside most keys.
		if len(name) < 3 {
			continue
		}
		if strings.Contains(name, key) || strings.Contains(key, name) {
			out = append(out, job)
		}
	}
	return out
}

// transitionAllowed decides whether the suggested status may replace the
// current one. Same status again is a no-op (idempotence), and terminal
// states are never left via this pipeline.
func transitionAllowed(current, suggested string) bool {
	if suggested == "" || suggested == current {
		return false
	}
	return !models.IsTerminalStatus(current)
}

// PlanReconcile is the pure half of reconciliation: which of the given
// jobs would this update transition, independently of each other.
func PlanReconcile(update *models.EmailUpdate, jobs []models.TrackedJob) []models.TrackedJob {
	var out []models.TrackedJob
	for _, job := range MatchTrackedJobs(update.CompanyKey, jobs) {
		if transitionAllowed(job.Status, update.SuggestedStatus) {
			out = append(out, job)
		}
	}
	return out
}

// Reconcile applies one update against the owner's tracked jobs. Every
// applied transition is a conditional write on the status the plan saw,
// so a concurrent manual edit or overlapping scan loses nothing: whoever
// writes second simply matches zero rows.
func (s *ReconcilerService) Reconcile(update *models.EmailUpdate, jobs []models.TrackedJob) (ReconcileResult, error) {
	var res ReconcileResult

	for _, job := range PlanReconcile(update, jobs) {
		tx := s.DB.Model(&models.TrackedJob{}).
			Where("id = ? AND status = ?", job.ID, job.Status).
			Updates(map[string]interface{}{
				"status":       update.SuggestedStatus,
				"last_updated": time.Now(),
			})
		if tx.Error != nil {
			return res, fmt.Errorf("update job %d status: %w", job.ID, tx.Error)
		}
		if tx.RowsAffected == 0 {
			// Someone else moved the job first; treat as not applied.
			log.Printf("[reconcile] job %d changed underneath us, skipping", job.ID)
			continue
		}

		res.AppliedCount++
		res.TouchedJobIDs = append(res.TouchedJobIDs, job.ID)

		// Append-only history row; never mutated afterwards.
		jobID := job.ID
		logRow := models.EmailUpdate{
			CompanyKey:      update.CompanyKey,
			Verdict:         update.Verdict,
			SuggestedStatus: update.SuggestedStatus,
			Subject:         update.Subject,
			Sender:          update.Sender,
			Timestamp:       update.Timestamp,
			JobID:           &jobID,
		}
		if err := s.DB.Create(&logRow).Error; err != nil {
			log.Printf("[reconcile] failed to log update for job %d: %v", job.ID, err)
		}

		log.Printf("[reconcile] job %d (%s): %s -> %s", job.ID, job.CompanyName, job.Status, update.SuggestedStatus)
	}

	return res, nil
}

// ReconcileAll runs every update against the owner's current jobs and
// merges the results. Jobs are re-read between updates so a transition
// applied by one update is visible to the next.
func (s *ReconcilerService) ReconcileAll(updates []models.EmailUpdate, ownerID *uint) (ReconcileResult, error) {
	var total ReconcileResult

	for i := range updates {
		jobs, err := s.ownerJobs(ownerID)
		if err != nil {
			return total, fmt.Errorf("load tracked jobs: %w", err)
		}

		res, err := s.Reconcile(&updates[i], jobs)
		if err != nil {
			return total, err
		}
		total.AppliedCount += res.AppliedCount
		total.TouchedJobIDs = append(total.TouchedJobIDs, res.TouchedJobIDs...)
	}

	return total, nil
}

func (s *ReconcilerService) ownerJobs(ownerID *uint) ([]models.TrackedJob, error) {
	var jobs []models.TrackedJob
	q := s.DB
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
