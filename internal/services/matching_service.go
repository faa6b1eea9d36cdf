package services

import (
	"strings"

	"github.com/justsurfingit/JobConnect/internal/models"
)

type MatcherService struct{}

func NewMatcherService() *MatcherService {
	return &MatcherService{}
}

// Filter keeps jobs in category (empty or "All" means any) whose title or
// company contains query, case-insensitively. Order is preserved.
func (s *MatcherService) Filter(jobs []models.Job, category, query string) []models.Job {
	query = strings.ToLower(strings.TrimSpace(query))
	anyCategory := category == "" || category == models.CategoryAll

	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if !anyCategory && job.Category != category {
			continue
		}
		if query != "" && !s.matchesQuery(job, query) {
			continue
		}
		out = append(out, job)
	}
	return out
}

// query is already lower-cased
func (s *MatcherService) matchesQuery(job models.Job, query string) bool {
	return strings.Contains(strings.ToLower(job.Title), query) ||
		strings.Contains(strings.ToLower(job.Company), query)
}
