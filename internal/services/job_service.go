package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/JobConnect/internal/database"
	"github.com/justsurfingit/JobConnect/internal/dtos"
	"github.com/justsurfingit/JobConnect/internal/models"
)

// JobsKey is where the whole job list lives.
const JobsKey = "job_service_db_v2"

var (
	ErrCorruptRecord = errors.New("stored job list is not valid JSON")
	ErrDuplicateJob  = errors.New("a job with this id already exists")
)

// JobService is the only owner of the job list. Every change rewrites the
// full list under JobsKey; there are no partial writes.
type JobService struct {
	Store database.KVStore
	Now   func() time.Time

	// mu serializes read-modify-write cycles
	mu sync.Mutex
}

func NewJobService(store database.KVStore) *JobService {
	return &JobService{
		Store: store,
		Now:   time.Now,
	}
}

// List returns all jobs, newest first. The first call against an empty store
// writes the seed jobs; a stored empty list is left alone.
func (s *JobService) List(ctx context.Context) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Create prepends job and persists the list. The caller assigns ID and PostedAt.
func (s *JobService) Create(ctx context.Context, job models.Job) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		if j.ID == job.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
		}
	}

	jobs = append([]models.Job{job}, jobs...)
	if err := s.save(ctx, jobs); err != nil {
		return nil, err
	}
	log.Printf("💼 Job %s posted: %s at %s", job.ID, job.Title, job.Company)
	return jobs, nil
}

// Delete removes the job with id. Unknown ids leave the list unchanged.
func (s *JobService) Delete(ctx context.Context, id string) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	if err := s.save(ctx, kept); err != nil {
		return nil, err
	}
	if len(kept) != len(jobs) {
		log.Printf("🗑️  Job %s deleted", id)
	}
	return kept, nil
}

// Get looks up one job by id.
func (s *JobService) Get(ctx context.Context, id string) (models.Job, bool, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return models.Job{}, false, err
	}
	for _, j := range jobs {
		if j.ID == id {
			return j, true, nil
		}
	}
	return models.Job{}, false, nil
}

// NewJob turns an admin form into a posting with a fresh time-ordered id.
func (s *JobService) NewJob(req *dtos.JobCreationRequest) (models.Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return models.Job{}, fmt.Errorf("generate job id: %w", err)
	}
	return models.Job{
		ID:          id.String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Salary:      req.Salary,
		Description: req.Description,
		Type:        models.JobType(req.Type),
		Category:    req.Category,
		PostedAt:    s.Now().UTC(),
	}, nil
}

// load must be called with s.mu held.
func (s *JobService) load(ctx context.Context) ([]models.Job, error) {
	raw, ok, err := s.Store.Get(ctx, JobsKey)
	if err != nil {
		return nil, fmt.Errorf("read job list: %w", err)
	}
	if !ok {
		jobs := seedJobs(s.Now())
		if err := s.save(ctx, jobs); err != nil {
			return nil, err
		}
		log.Printf("🌱 Seeded job list with %d postings", len(jobs))
		return jobs, nil
	}

	var jobs []models.Job
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *JobService) save(ctx context.Context, jobs []models.Job) error {
	b, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode job list: %w", err)
	}
	if err := s.Store.Set(ctx, JobsKey, string(b)); err != nil {
		return fmt.Errorf("write job list: %w", err)
	}
	return nil
}

func seedJobs(now time.Time) []models.Job {
	now = now.UTC()
	return []models.Job{
		{
			ID:          "1",
			Title:       "Senior React Developer",
			Company:     "TechFlow Solutions",
			Location:    "Dhaka, Bangladesh (Remote)",
			Salary:      "150,000 - 200,000 BDT",
			Description: "We are looking for an experienced React developer to lead our frontend team. Must know TypeScript and Tailwind.",
			PostedAt:    now,
			Type:        models.JobTypeFullTime,
			Category:    "IT & Software",
		},
		{
			ID:          "2",
			Title:       "UI/UX Designer",
			Company:     "Creative Hub",
			Location:    "Chittagong, Bangladesh",
			Salary:      "80,000 - 120,000 BDT",
			Description: "Design beautiful interfaces for mobile and web apps. Experience with Figma is required.",
			PostedAt:    now.Add(-24 * time.Hour),
			Type:        models.JobTypeFullTime,
			Category:    "Design",
		},
		{
			ID:          "3",
			Title:       "Marketing Manager",
			Company:     "Growth Hackers BD",
			Location:    "Sylhet, Bangladesh",
			Salary:      "60,000 - 90,000 BDT",
			Description: "Looking for a digital marketing expert to handle social media campaigns and SEO strategies.",
			PostedAt:    now.Add(-48 * time.Hour),
			Type:        models.JobTypeContract,
			Category:    "Marketing",
		},
	}
}
