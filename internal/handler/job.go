package handler

import (
	"net/http"
	"strconv"
	"strings"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/service"

	"github.com/gin-gonic/gin"
)

// JobHandler handles the user-scoped job routes
type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /jobs?limit=
func (h *JobHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	jobs, err := h.jobs.GetAllJobs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", jobs))
}

// Search handles GET /jobs/search?q=&limit=
func (h *JobHandler) Search(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	jobs, err := h.jobs.SearchJobs(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", jobs))
}

// Filter handles GET /jobs/filter
func (h *JobHandler) Filter(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	filter, err := parseJobFilter(c)
	if err != nil {
		badRequest(c, "Invalid filter", err.Error())
		return
	}
	jobs, err := h.jobs.FilterJobs(c.Request.Context(), filter, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", jobs))
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", job))
}

// ListByUser handles GET /users/:userId/jobs
func (h *JobHandler) ListByUser(c *gin.Context) {
	jobs, err := h.jobs.GetJobsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", jobs))
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req model.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid job", err.Error())
		return
	}
	job, err := h.jobs.AddJob(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Job created", job))
}

// Update handles PATCH /jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	var req model.JobUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid job", err.Error())
		return
	}
	job, err := h.jobs.UpdateJob(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Job updated", job))
}

// Delete handles DELETE /jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Job deleted", nil))
}

func parseJobFilter(c *gin.Context) (model.JobFilter, error) {
	var f model.JobFilter
	if v := strings.TrimSpace(c.Query("jobType")); v != "" {
		f.JobType = &v
	}
	if v := strings.TrimSpace(c.Query("location")); v != "" {
		f.Location = &v
	}
	if v := c.Query("isAccessible"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, err
		}
		f.IsAccessible = &b
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{{"salaryMin", &f.SalaryMin}, {"salaryMax", &f.SalaryMax}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
		*p.dst = &n
	}
	return f, nil
}
