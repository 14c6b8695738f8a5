package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jobtrail/internal/dtos"
	"jobtrail/internal/services"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	JobService    *services.JobService
	SearchService *services.SearchService
	LLMService    *services.LLMService
}

func NewJobHandler(jobs *services.JobService, search *services.SearchService, llm *services.LLMService) *JobHandler {
	return &JobHandler{
		JobService:    jobs,
		SearchService: search,
		LLMService:    llm,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SearchJobs is the POST /jobs/search endpoint: query the provider,
// nothing persisted.
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dtos.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	postings, err := h.SearchService.Search(c.Request.Context(), req.Query, services.SearchFilters{
		EmploymentType: req.EmploymentType,
		RemoteOnly:     req.RemoteOnly,
		Requirements:   req.Requirements,
		DatePosted:     req.DatePosted,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Search failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": postings})
}

// SaveJob is the POST /jobs endpoint: track a posting from search results.
func (h *JobHandler) SaveJob(c *gin.Context) {
	var req dtos.SaveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	job, err := h.JobService.SaveJob(&req, currentOwner(c))
	if err != nil {
		if errors.Is(err, services.ErrJobValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save job: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(currentOwner(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// UpdateStatus is the manual edit path; unlike the email pipeline it may
// move a job out of a terminal status.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	var req dtos.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	job, err := h.JobService.UpdateStatus(uint(jobID), currentOwner(c), req.Status)
	if err != nil {
		if errors.Is(err, services.ErrJobValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	if err := h.JobService.DeleteJob(uint(jobID), currentOwner(c)); err != nil {
		if errors.Is(err, services.ErrJobValidation) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": jobID})
}

// ParseJob is the POST /jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Extraction disabled: no LLM configured"})
		return
	}

	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	extractedJSON, err := h.LLMService.ExtractJobDetails(c.Request.Context(), req.RawHTML)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}

	// json.RawMessage keeps the inner JSON string from being escaped
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    json.RawMessage(extractedJSON),
	})
}

// currentOwner resolves the authenticated user. Single-user deployment:
// everything is owned by the nil owner until real auth lands in front.
func currentOwner(c *gin.Context) *uint {
	return nil
}
