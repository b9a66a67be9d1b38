package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/middlewares"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/filters"
	"github.com/maxaizer/jobmarket/internal/services"
)

type ListingsHandler struct {
	listings *services.Listings
}

func NewListingsHandler(listings *services.Listings) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// GET /v1/jobs?search=&location=&skills=a,b&salaryMin=&salaryMax=&status=
func (h *ListingsHandler) ListJobs(c *gin.Context) {
	criteria := filters.JobCriteria{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Skills:   filters.SplitSkills(c.QueryArray("skills")),
		Salary: filters.Range{
			Min: filters.ParseBound(c.Query("salaryMin")),
			Max: filters.ParseBound(c.Query("salaryMax")),
		},
		Status: models.JobStatus(c.Query("status")),
	}

	jobs, err := h.listings.Jobs(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "empty": len(jobs) == 0})
}

// GET /v1/jobs/:id
func (h *ListingsHandler) GetJob(c *gin.Context) {
	job, err := h.listings.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// POST /v1/jobs (employer)
func (h *ListingsHandler) PostJob(c *gin.Context) {
	var draft models.JobDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.listings.PostJob(c.Request.Context(), middlewares.CurrentIdentity(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// GET /v1/workers?search=&location=&skills=&experienceMin=&experienceMax=&availability=
func (h *ListingsHandler) ListWorkers(c *gin.Context) {
	criteria := filters.WorkerCriteria{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Skills:   filters.SplitSkills(c.QueryArray("skills")),
		Experience: filters.Range{
			Min: filters.ParseBound(c.Query("experienceMin")),
			Max: filters.ParseBound(c.Query("experienceMax")),
		},
		Availability: models.Availability(c.Query("availability")),
	}

	workers, err := h.listings.Workers(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers, "empty": len(workers) == 0})
}

// GET /v1/workers/:id
func (h *ListingsHandler) GetWorker(c *gin.Context) {
	worker, err := h.listings.Worker(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

// GET /v1/employers
func (h *ListingsHandler) ListEmployers(c *gin.Context) {
	employers, err := h.listings.Employers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employers": employers, "empty": len(employers) == 0})
}

// GET /v1/employers/:id
func (h *ListingsHandler) GetEmployer(c *gin.Context) {
	employer, err := h.listings.Employer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employer)
}

// GET /v1/employers/:id/jobs
func (h *ListingsHandler) ListEmployerJobs(c *gin.Context) {
	jobs, err := h.listings.EmployerJobs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "empty": len(jobs) == 0})
}
