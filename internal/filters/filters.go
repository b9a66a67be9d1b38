package filters

import (
	"slices"
	"strings"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/samber/lo"
)

type Predicate[T any] func(T) bool

// Apply keeps the records that satisfy every predicate, in input order.
// With no predicates the input slice itself is returned.
func Apply[T any](records []T, predicates ...Predicate[T]) []T {
	if len(predicates) == 0 {
		return records
	}

	return lo.Filter(records, func(record T, _ int) bool {
		for _, predicate := range predicates {
			if !predicate(record) {
				return false
			}
		}
		return true
	})
}

func ApplyJobFilters(jobs []models.Job, criteria JobCriteria) []models.Job {
	return Apply(jobs, JobPredicates(criteria)...)
}

func ApplyWorkerFilters(workers []models.Worker, criteria WorkerCriteria) []models.Worker {
	return Apply(workers, WorkerPredicates(criteria)...)
}

func JobPredicates(criteria JobCriteria) []Predicate[models.Job] {
	var predicates []Predicate[models.Job]

	if search := normalizeSearch(criteria.Search); search != "" {
		predicates = append(predicates, func(job models.Job) bool {
			return containsFold(search, job.Title, job.Description) ||
				anyContainsFold(search, job.SkillsRequired) ||
				anyContainsFold(search, job.Location.Tokens())
		})
	}

	if criteria.Location != "" {
		predicates = append(predicates, func(job models.Job) bool {
			return job.Location.Matches(criteria.Location)
		})
	}

	if len(criteria.Skills) > 0 {
		predicates = append(predicates, func(job models.Job) bool {
			return hasAnySkill(job.SkillsRequired, criteria.Skills)
		})
	}

	if bounds, active := criteria.Salary.resolve(DefaultSalaryBounds); active {
		predicates = append(predicates, func(job models.Job) bool {
			if job.Salary == nil {
				return true
			}
			return job.Salary.Max >= bounds.Min && job.Salary.Min <= bounds.Max
		})
	}

	if criteria.Status != "" {
		predicates = append(predicates, func(job models.Job) bool {
			return job.Status == criteria.Status
		})
	}

	return predicates
}

func WorkerPredicates(criteria WorkerCriteria) []Predicate[models.Worker] {
	var predicates []Predicate[models.Worker]

	if search := normalizeSearch(criteria.Search); search != "" {
		predicates = append(predicates, func(worker models.Worker) bool {
			return containsFold(search, worker.Name) ||
				anyContainsFold(search, worker.Skills) ||
				anyContainsFold(search, worker.Location.Tokens())
		})
	}

	if criteria.Location != "" {
		predicates = append(predicates, func(worker models.Worker) bool {
			return worker.Location.Matches(criteria.Location)
		})
	}

	if len(criteria.Skills) > 0 {
		predicates = append(predicates, func(worker models.Worker) bool {
			return hasAnySkill(worker.Skills, criteria.Skills)
		})
	}

	if bounds, active := criteria.Experience.resolve(DefaultExperienceBounds); active {
		predicates = append(predicates, func(worker models.Worker) bool {
			years, ok := worker.ExperienceYears()
			if !ok {
				return true
			}
			return years >= bounds.Min && years <= bounds.Max
		})
	}

	if criteria.Availability != "" {
		predicates = append(predicates, func(worker models.Worker) bool {
			return worker.Availability == criteria.Availability
		})
	}

	return predicates
}

func normalizeSearch(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// containsFold reports whether any of the fields contains the already
// lower-cased search term.
func containsFold(search string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func anyContainsFold(search string, tokens []string) bool {
	return containsFold(search, tokens...)
}

func hasAnySkill(recordSkills []string, requested []string) bool {
	return lo.SomeBy(requested, func(skill string) bool {
		return slices.Contains(recordSkills, skill)
	})
}
