package services

import (
	"errors"
	"fmt"
	"time"

	"jobtrail/internal/dtos"
	"jobtrail/internal/models"

	"gorm.io/gorm"
)

// ErrJobValidation marks bad input, as opposed to the store being down.
var ErrJobValidation = errors.New("invalid job")

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{DB: db}
}

type saveAction int

const (
	saveActionCreate saveAction = iota
	saveActionUpdateStatus
	saveActionNone
)

// planSave is the pure half of the upsert: what does saving this posting
// do to the tracked list. A posting already tracked for the owner never
// becomes a second row; it changes status only when the request actually
// differs, and otherwise nothing is written (LastUpdated included).
func planSave(existing *models.TrackedJob, requestedStatus string) saveAction {
	if existing == nil {
		return saveActionCreate
	}
	if requestedStatus != "" && requestedStatus != existing.Status {
		return saveActionUpdateStatus
	}
	return saveActionNone
}

// SaveJob upserts a posting into the tracked list.
func (s *JobService) SaveJob(req *dtos.SaveJobRequest, ownerID *uint) (*models.TrackedJob, error) {
	if req.ExternalID == "" || req.Title == "" || req.CompanyName == "" {
		return nil, fmt.Errorf("%w: external_id, title and company_name are required", ErrJobValidation)
	}
	if req.Status != "" && !models.IsValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrJobValidation, req.Status)
	}

	var job models.TrackedJob
	existing := &job
	err := s.ownerScope(ownerID).Where("external_id = ?", req.ExternalID).First(&job).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("find tracked job: %w", err)
	}

	switch planSave(existing, req.Status) {
	case saveActionCreate:
		status := req.Status
		if status == "" {
			status = models.StatusSaved
		}
		job = models.TrackedJob{
			ExternalID:  req.ExternalID,
			UserID:      ownerID,
			Title:       req.Title,
			CompanyName: req.CompanyName,
			ApplyLink:   req.ApplyLink,
			Status:      status,
			LastUpdated: time.Now(),
		}
		if err := s.DB.Create(&job).Error; err != nil {
			return nil, fmt.Errorf("create tracked job: %w", err)
		}
		return &job, nil

	case saveActionUpdateStatus:
		if err := s.applyStatus(&job, req.Status); err != nil {
			return nil, err
		}
		return &job, nil

	default: // saveActionNone
		return &job, nil
	}
}

func (s *JobService) ListJobs(ownerID *uint) ([]models.TrackedJob, error) {
	var jobs []models.TrackedJob
	if err := s.ownerScope(ownerID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list tracked jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus is the user-driven edit path. Unlike the reconciler it is
// unrestricted: the user may pull a job back out of a terminal status.
func (s *JobService) UpdateStatus(jobID uint, ownerID *uint, status string) (*models.TrackedJob, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrJobValidation, status)
	}

	var job models.TrackedJob
	if err := s.ownerScope(ownerID).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d not found", ErrJobValidation, jobID)
		}
		return nil, fmt.Errorf("find tracked job: %w", err)
	}

	if status == job.Status {
		return &job, nil
	}
	if err := s.applyStatus(&job, status); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) DeleteJob(jobID uint, ownerID *uint) error {
	tx := s.ownerScope(ownerID).Delete(&models.TrackedJob{}, jobID)
	if tx.Error != nil {
		return fmt.Errorf("delete tracked job: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: job %d not found", ErrJobValidation, jobID)
	}
	return nil
}

func (s *JobService) applyStatus(job *models.TrackedJob, status string) error {
	now := time.Now()
	if err := s.DB.Model(job).Updates(map[string]interface{}{
		"status":       status,
		"last_updated": now,
	}).Error; err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	job.Status = status
	job.LastUpdated = now
	return nil
}

func (s *JobService) ownerScope(ownerID *uint) *gorm.DB {
	if ownerID == nil {
		return s.DB.Where("user_id IS NULL")
	}
	return s.DB.Where("user_id = ?", *ownerID)
}
