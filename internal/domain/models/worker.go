package models

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

type Availability string

const (
	Immediate   Availability = "immediate"
	WithinWeek  Availability = "within_week"
	WithinMonth Availability = "within_month"
)

func ToAvailability(s string) (Availability, error) {
	switch s {
	case string(Immediate):
		return Immediate, nil
	case string(WithinWeek):
		return WithinWeek, nil
	case string(WithinMonth):
		return WithinMonth, nil
	default:
		return "", errors.New("invalid availability")
	}
}

type Certification struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
	Url      string `json:"url,omitempty"`
}

type Worker struct {
	Identity       `gorm:"embedded"`
	Skills         []string        `gorm:"serializer:json" json:"skills"`
	Experience     string          `json:"experience"`
	Location       Location        `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	VideoResume    string          `json:"videoResume,omitempty"`
	Certifications []Certification `gorm:"serializer:json" json:"certifications"`
	Availability   Availability    `json:"availability,omitempty"`
	Ratings        *float64        `json:"ratings,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// ExperienceYears reads the leading number of a free-text experience such as
// "7 years" or "10+ yrs". ok is false when no number leads the text.
func (w Worker) ExperienceYears() (years int, ok bool) {
	return ParseExperienceYears(w.Experience)
}

func ParseExperienceYears(experience string) (int, bool) {
	text := strings.TrimSpace(experience)
	end := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(text)
	}
	if end == 0 {
		return 0, false
	}

	years, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0, false
	}
	return years, true
}

type Employer struct {
	Identity    `gorm:"embedded"`
	CompanyName string   `json:"companyName"`
	Industry    string   `json:"industry"`
	Location    Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty"`
	Logo        string   `json:"logo,omitempty"`
}

func (Worker) TableName() string {
	return "workers"
}

func (Employer) TableName() string {
	return "employers"
}
