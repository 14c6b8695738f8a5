package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jobtrail/internal/config"

	"golang.org/x/time/rate"
)

// SearchService talks to the JSearch API. The provider is an opaque
// read-only source; nothing from it is persisted until the user saves a
// posting.
type SearchService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewSearchService() *SearchService {
	return &SearchService{
		baseURL: config.JSearchBaseURL(),
		apiKey:  config.JSearchAPIKey(),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Free-tier friendly: 1 req/s with a small burst.
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

type SearchFilters struct {
	EmploymentType string `json:"employment_type,omitempty"` // FULLTIME, PARTTIME, CONTRACTOR, INTERN
	RemoteOnly     bool   `json:"remote_only,omitempty"`
	Requirements   string `json:"requirements,omitempty"` // e.g. no_experience, under_3_years_experience
	DatePosted     string `json:"date_posted,omitempty"`  // all, today, 3days, week, month
}

// JobPosting is one search result, already flattened to the fields the
// tracker cares about.
type JobPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	ApplyLink   string `json:"apply_link"`
	Description string `json:"description"`
	PostedAt    string `json:"posted_at,omitempty"`
}

type jsearchResponse struct {
	Data []struct {
		JobID          string `json:"job_id"`
		JobTitle       string `json:"job_title"`
		EmployerName   string `json:"employer_name"`
		JobCity        string `json:"job_city"`
		JobCountry     string `json:"job_country"`
		JobApplyLink   string `json:"job_apply_link"`
		JobDescription string `json:"job_description"`
		JobPostedAt    string `json:"job_posted_at_datetime_utc"`
	} `json:"data"`
}

// Search runs one provider query. No retries: a failed search surfaces to
// the caller and the user simply tries again.
func (s *SearchService) Search(ctx context.Context, query string, filters SearchFilters) ([]JobPosting, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("job search disabled: JSEARCH_API_KEY not set")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", "1")
	q.Set("num_pages", "1")
	if filters.EmploymentType != "" {
		q.Set("employment_types", filters.EmploymentType)
	}
	if filters.RemoteOnly {
		q.Set("remote_jobs_only", "true")
	}
	if filters.Requirements != "" {
		q.Set("job_requirements", filters.Requirements)
	}
	if filters.DatePosted != "" {
		q.Set("date_posted", filters.DatePosted)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var decoded jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	postings := make([]JobPosting, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		location := d.JobCity
		if d.JobCountry != "" {
			if location != "" {
				location += ", "
			}
			location += d.JobCountry
		}
		postings = append(postings, JobPosting{
			ID:          d.JobID,
			Title:       d.JobTitle,
			Company:     d.EmployerName,
			Location:    location,
			ApplyLink:   d.JobApplyLink,
			Description: d.JobDescription,
			PostedAt:    d.JobPostedAt,
		})
	}
	return postings, nil
}
