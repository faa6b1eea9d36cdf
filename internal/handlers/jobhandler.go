package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/dtos"
	"github.com/justsurfingit/JobConnect/internal/models"
	"github.com/justsurfingit/JobConnect/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
	LLMService *services.LLMService
	Matcher    *services.MatcherService
	Sessions   *services.SessionService
}

func NewJobHandler(jobs *services.JobService, llm *services.LLMService, matcher *services.MatcherService, sessions *services.SessionService) *JobHandler {
	return &JobHandler{
		JobService: jobs,
		LLMService: llm,
		Matcher:    matcher,
		Sessions:   sessions,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": append([]string{models.CategoryAll}, models.Categories...)})
}

// ListJobs is GET /jobs?category=&q= for the browsing view.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	category := c.DefaultQuery("category", models.CategoryAll)
	jobs = h.Matcher.Filter(jobs, category, c.Query("q"))

	admin := currentUser(c).IsAdmin()
	views := make([]dtos.JobView, 0, len(jobs))
	for _, j := range jobs {
		v := dtos.JobView{Job: j}
		if !admin && !h.Sessions.IsSalaryUnlocked(j.ID) {
			v.Salary = ""
			v.SalaryLocked = true
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, dtos.JobListResponse{Category: category, Count: len(views), Jobs: views})
}

// AdminListJobs is the manage tab: everything, salaries included.
func (h *JobHandler) AdminListJobs(c *gin.Context) {
	jobs, err := h.JobService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if !models.IsCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be one of the listed categories"})
		return
	}

	job, err := h.JobService.NewJob(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	jobs, err := h.JobService.Create(c.Request.Context(), job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Job posted successfully!", "job": job, "jobs": jobs})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobs, err := h.JobService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GenerateDescription always answers 200; a failed generation comes back as
// the fallback text in place of a description.
func (h *JobHandler) GenerateDescription(c *gin.Context) {
	var req dtos.DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in Job Title, Company, and Skills to generate a description."})
		return
	}
	desc := h.LLMService.GenerateJobDescription(c.Request.Context(), req.Title, req.Company, req.Skills)
	c.JSON(http.StatusOK, gin.H{"description": desc})
}
