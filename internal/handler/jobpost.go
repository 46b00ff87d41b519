package handler

import (
	"net/http"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/service"

	"github.com/gin-gonic/gin"
)

// JobPostHandler handles organization job post routes
type JobPostHandler struct {
	posts *service.JobPostService
}

func NewJobPostHandler(posts *service.JobPostService) *JobPostHandler {
	return &JobPostHandler{posts: posts}
}

// List handles GET /job-posts
func (h *JobPostHandler) List(c *gin.Context) {
	posts, err := h.posts.GetAllJobPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", posts))
}

// ListMine handles GET /job-posts/mine
func (h *JobPostHandler) ListMine(c *gin.Context) {
	posts, err := h.posts.GetUserJobPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", posts))
}

// Get handles GET /job-posts/:id
func (h *JobPostHandler) Get(c *gin.Context) {
	post, err := h.posts.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", post))
}

// Create handles POST /job-posts
func (h *JobPostHandler) Create(c *gin.Context) {
	var req model.CreateJobPostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid job post", err.Error())
		return
	}
	post, err := h.posts.CreateJobPost(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Job post created", post))
}

// Update handles PATCH /job-posts/:id
func (h *JobPostHandler) Update(c *gin.Context) {
	var req model.JobPostUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid job post", err.Error())
		return
	}
	post, err := h.posts.UpdateJobPost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Job post updated", post))
}

// Delete handles DELETE /job-posts/:id
func (h *JobPostHandler) Delete(c *gin.Context) {
	if err := h.posts.DeleteJobPost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Job post deleted", nil))
}
