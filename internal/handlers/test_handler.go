package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
}

func NewTestHandler(testService services.TestService, logger utils.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
	}
}

// CreateTest creates a new mock test with its question sequence.
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req services.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	test, err := h.testService.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, test)
}

// GetTest retrieves a test definition. Students get sanitized questions,
// officers the full definition.
func (h *TestHandler) GetTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	test, err := h.testService.GetByID(c.Request.Context(), id, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// ListTests lists all test definitions.
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Tests retrieved",
		Data:    tests,
	})
}

// PublishTest makes a draft test visible to students.
func (h *TestHandler) PublishTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.testService.Publish(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Test published"})
}

// UnpublishTest hides a test from students again.
func (h *TestHandler) UnpublishTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.testService.Unpublish(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Test unpublished"})
}

// DeleteTest removes a test that has no attempts.
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.testService.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Test deleted"})
}

// GetTestStats returns attempt statistics for a test.
func (h *TestHandler) GetTestStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	stats, err := h.testService.GetStats(c.Request.Context(), id, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
