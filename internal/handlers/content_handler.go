package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

// ContentHandler serves the placement content surface: job postings with
// campus-drive applications, blogs, study materials and videos.
type ContentHandler struct {
	BaseHandler
	jobService      services.JobService
	blogService     services.BlogService
	materialService services.MaterialService
	videoService    services.VideoService
}

func NewContentHandler(
	jobService services.JobService,
	blogService services.BlogService,
	materialService services.MaterialService,
	videoService services.VideoService,
	logger utils.Logger,
) *ContentHandler {
	return &ContentHandler{
		BaseHandler:     NewBaseHandler(logger),
		jobService:      jobService,
		blogService:     blogService,
		materialService: materialService,
		videoService:    videoService,
	}
}

// ===== JOB POSTINGS =====

func (h *ContentHandler) CreateJob(c *gin.Context) {
	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *ContentHandler) GetJob(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	job, err := h.jobService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *ContentHandler) ListJobs(c *gin.Context) {
	campusOnly := c.Query("campus_drive") == "true"

	jobs, err := h.jobService.List(c.Request.Context(), campusOnly)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Jobs retrieved", Data: jobs})
}

func (h *ContentHandler) UpdateJob(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), id, &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *ContentHandler) DeleteJob(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Job deleted"})
}

// ApplyToJob records the caller's application to a campus drive.
func (h *ContentHandler) ApplyToJob(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	app, err := h.jobService.Apply(c.Request.Context(), id, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListJobApplications lists a campus drive's applications for officers.
func (h *ContentHandler) ListJobApplications(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	apps, err := h.jobService.Applications(c.Request.Context(), id, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Applications retrieved", Data: apps})
}

// ===== BLOGS =====

func (h *ContentHandler) CreateBlog(c *gin.Context) {
	var req services.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	blog, err := h.blogService.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, blog)
}

func (h *ContentHandler) GetBlog(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	blog, err := h.blogService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (h *ContentHandler) ListBlogs(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	blogs, err := h.blogService.List(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Blogs retrieved", Data: blogs})
}

func (h *ContentHandler) ApproveBlog(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.blogService.Approve(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Blog approved"})
}

func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Blog deleted"})
}

// ===== STUDY MATERIALS =====

func (h *ContentHandler) CreateMaterial(c *gin.Context) {
	var req services.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

func (h *ContentHandler) ListMaterials(c *gin.Context) {
	var subject *string
	if s := c.Query("subject"); s != "" {
		subject = &s
	}

	materials, err := h.materialService.List(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Materials retrieved", Data: materials})
}

func (h *ContentHandler) DeleteMaterial(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.materialService.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Material deleted"})
}

// ===== VIDEOS =====

func (h *ContentHandler) CreateVideo(c *gin.Context) {
	var req services.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	video, err := h.videoService.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

func (h *ContentHandler) ListVideos(c *gin.Context) {
	var subject *string
	if s := c.Query("subject"); s != "" {
		subject = &s
	}

	videos, err := h.videoService.List(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Videos retrieved", Data: videos})
}

func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Video deleted"})
}
