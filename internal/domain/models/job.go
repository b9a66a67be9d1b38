package models

import (
	"slices"
	"strings"
	"time"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
	JobFilled JobStatus = "filled"
)

type SalaryPeriod string

const (
	Hourly  SalaryPeriod = "hourly"
	Daily   SalaryPeriod = "daily"
	Weekly  SalaryPeriod = "weekly"
	Monthly SalaryPeriod = "monthly"
)

type Location struct {
	City  string `json:"city" validate:"required"`
	State string `json:"state" validate:"required"`
}

func (l Location) Tokens() []string {
	return []string{l.City, l.State}
}

func (l Location) Matches(place string) bool {
	return l.City == place || l.State == place
}

type Salary struct {
	Min    int          `json:"min" validate:"gte=0"`
	Max    int          `json:"max" validate:"gtefield=Min"`
	Period SalaryPeriod `json:"period" validate:"required,oneof=hourly daily weekly monthly"`
}

type Job struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	SkillsRequired []string   `gorm:"serializer:json" json:"skillsRequired"`
	Location       Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Salary         *Salary    `gorm:"serializer:json" json:"salary,omitempty"`
	EmployerID     string     `gorm:"index" json:"employerId"`
	EmployerName   string     `json:"employerName"`
	EmployerLogo   string     `json:"employerLogo,omitempty"`
	Status         JobStatus  `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// JobDraft is the employer-submitted posting form.
type JobDraft struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Skills      []string `json:"skills" validate:"required,min=1,dive,required"`
	Location    Location `json:"location"`
	Salary      *Salary  `json:"salary" validate:"omitempty"`
}

// Normalized trims the text fields and drops blank and repeated skills.
func (d JobDraft) Normalized() JobDraft {
	skills := make([]string, 0, len(d.Skills))
	for _, skill := range d.Skills {
		skill = strings.TrimSpace(skill)
		if skill != "" && !slices.Contains(skills, skill) {
			skills = append(skills, skill)
		}
	}

	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Skills = skills
	return d
}

func NewJob(id string, draft JobDraft, employer Employer, createdAt time.Time) Job {
	draft = draft.Normalized()

	return Job{
		ID:             id,
		Title:          draft.Title,
		Description:    draft.Description,
		SkillsRequired: draft.Skills,
		Location:       draft.Location,
		Salary:         draft.Salary,
		EmployerID:     employer.ID,
		EmployerName:   employer.CompanyName,
		EmployerLogo:   employer.Logo,
		Status:         JobOpen,
		CreatedAt:      createdAt,
	}
}
