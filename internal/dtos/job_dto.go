package dtos

import "github.com/justsurfingit/JobConnect/internal/models"

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Salary      string `json:"salary" binding:"required"`
	Description string `json:"description" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=Full-time Part-time Contract Remote"`
	Category    string `json:"category" binding:"required"`
}

type DescriptionRequest struct {
	Title   string `json:"title" binding:"required"`
	Company string `json:"company" binding:"required"`
	Skills  string `json:"skills" binding:"required"`
}

// JobView is a posting as shown to the current user. Salary is blanked
// until the user unlocks it (admins always see it).
type JobView struct {
	models.Job
	SalaryLocked bool `json:"salaryLocked"`
}

type JobListResponse struct {
	Category string    `json:"category"`
	Count    int       `json:"count"`
	Jobs     []JobView `json:"jobs"`
}
