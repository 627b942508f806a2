package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService     services.AttemptService
	leaderboardService services.LeaderboardService
	exportService      services.ExportService
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:        NewBaseHandler(logger),
		attemptService:     attemptService,
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// BeginAttempt starts a timed attempt on a test and returns the sanitized
// question set with the server-side deadline.
func (h *AttemptHandler) BeginAttempt(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.attemptService.Begin(c.Request.Context(), testID, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitAttempt scores the caller's active attempt on a test.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	var req services.SubmitAttemptRequest
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

	resp, err := h.attemptService.Submit(c.Request.Context(), testID, &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MyResults returns the caller's completed attempts with breakdowns.
func (h *AttemptHandler) MyResults(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	results, err := h.attemptService.MyResults(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Results retrieved",
		Data:    results,
	})
}

// Leaderboard returns the overall standings and per-test rankings.
func (h *AttemptHandler) Leaderboard(c *gin.Context) {
	board, err := h.leaderboardService.Leaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// TestLeaderboard returns the standings for one test.
func (h *AttemptHandler) TestLeaderboard(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	ranking, err := h.leaderboardService.TestRanking(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ranking)
}

// ExportTestResults streams an XLSX workbook of a test's results.
func (h *AttemptHandler) ExportTestResults(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportTestResults(c.Request.Context(), testID, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("test-%d-results.xlsx", testID)
	writeWorkbook(c, filename, data)
}

// ExportLeaderboard streams an XLSX workbook of the overall standings.
func (h *AttemptHandler) ExportLeaderboard(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportLeaderboard(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeWorkbook(c, "leaderboard.xlsx", data)
}

func writeWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
