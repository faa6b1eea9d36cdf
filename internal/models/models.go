package models

import (
	"time"
)

type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

// CategoryAll is the pseudo-category that disables category filtering.
const CategoryAll = "All"

// Categories is the taxonomy the admin form picks from.
var Categories = []string{
	"IT & Software",
	"Marketing",
	"Design",
	"Sales",
	"Management",
	"Engineering",
}

// IsCategory reports whether name belongs to the configured taxonomy.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Job is a single posting. The JSON names are the persisted record layout,
// so don't rename them without migrating stored lists.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	Type        JobType   `json:"type"`
	Category    string    `json:"category"`
	PostedAt    time.Time `json:"postedAt"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity produced by the OTP login and stored under the session key.
type User struct {
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// KVRecord backs the Postgres key-value store. One row per key.
type KVRecord struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
