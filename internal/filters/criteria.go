package filters

import (
	"strconv"
	"strings"

	"github.com/maxaizer/jobmarket/internal/domain/models"
)

// Bounds is an inclusive numeric interval.
type Bounds struct {
	Min int
	Max int
}

var (
	DefaultSalaryBounds     = Bounds{Min: 0, Max: 100000}
	DefaultExperienceBounds = Bounds{Min: 0, Max: 10}
)

// Range is a user supplied interval where either side may be missing.
type Range struct {
	Min *int
	Max *int
}

func NewRange(min, max int) Range {
	return Range{Min: &min, Max: &max}
}

// resolve fills a missing side from def. active is false when the resolved
// interval is the full default range, which means no constraint.
func (r Range) resolve(def Bounds) (bounds Bounds, active bool) {
	if r.Min == nil && r.Max == nil {
		return def, false
	}

	bounds = def
	if r.Min != nil {
		bounds.Min = *r.Min
	}
	if r.Max != nil {
		bounds.Max = *r.Max
	}
	return bounds, bounds != def
}

// ParseBound converts a query value to a range side. Anything that is not an
// integer yields nil so the side is treated as absent.
func ParseBound(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

type JobCriteria struct {
	Search   string
	Location string
	Skills   []string
	Salary   Range
	Status   models.JobStatus
}

type WorkerCriteria struct {
	Search       string
	Location     string
	Skills       []string
	Experience   Range
	Availability models.Availability
}

// SplitSkills accepts both repeated and comma separated skill values.
func SplitSkills(values []string) []string {
	var skills []string
	for _, value := range values {
		for _, skill := range strings.Split(value, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}
	}
	return skills
}
