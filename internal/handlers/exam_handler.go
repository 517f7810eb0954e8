package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openclass-labs/exam-engine/internal/services"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	sessionService     services.SessionService
	resultService      services.ResultService
	leaderboardService services.LeaderboardService
}

func NewExamHandler(
	sessionService services.SessionService,
	resultService services.ResultService,
	leaderboardService services.LeaderboardService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler:        NewBaseHandler(logger),
		sessionService:     sessionService,
		resultService:      resultService,
		leaderboardService: leaderboardService,
	}
}

// StartSession authorizes an exam session
// @Summary Start exam session
// @Description Authorizes the caller to begin a proctored exam and returns the sanitized question set
// @Tags exams
// @Produce json
// @Param test_id path uint true "Test ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /exams/{test_id}/session [post]
func (h *ExamHandler) StartSession(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	studentID := callerID(c)
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Starting exam session", "test_id", testID)

	session, err := h.sessionService.StartSession(c.Request.Context(), testID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Submit records the attempt
// @Summary Submit exam attempt
// @Description Scores and persists the caller's answer list; exactly one submission per test is accepted
// @Tags exams
// @Accept json
// @Produce json
// @Param test_id path uint true "Test ID"
// @Param submission body services.SubmitRequest true "Answer list"
// @Success 201 {object} services.SubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /exams/{test_id}/submissions [post]
func (h *ExamHandler) Submit(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	studentID := callerID(c)
	if studentID == "" {
		return
	}

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.TestID = testID

	h.LogRequest(c, "Submitting exam attempt",
		"test_id", testID,
		"is_auto", req.IsAuto)

	result, err := h.resultService.Submit(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetResultView returns the caller's result through the disclosure gate
// @Summary Get result view
// @Description Returns the caller's score; correct answers appear only after the disclosure window opens
// @Tags exams
// @Produce json
// @Param test_id path uint true "Test ID"
// @Success 200 {object} services.ResultView
// @Failure 404 {object} ErrorResponse
// @Router /exams/{test_id}/result [get]
func (h *ExamHandler) GetResultView(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	studentID := callerID(c)
	if studentID == "" {
		return
	}

	view, err := h.resultService.GetResultView(c.Request.Context(), testID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetLeaderboard returns the ranked, absentee-aware standings
// @Summary Get leaderboard
// @Description Returns one entry per enrolled student, ranked by marks descending
// @Tags exams
// @Produce json
// @Param test_id path uint true "Test ID"
// @Success 200 {object} services.Leaderboard
// @Failure 404 {object} ErrorResponse
// @Router /exams/{test_id}/leaderboard [get]
func (h *ExamHandler) GetLeaderboard(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	board, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
