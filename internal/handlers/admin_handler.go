package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openclass-labs/exam-engine/internal/services"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	testService   services.TestService
	exportService services.ExportService
}

func NewAdminHandler(
	testService services.TestService,
	exportService services.ExportService,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		testService:   testService,
		exportService: exportService,
	}
}

// UpdateTestStatus applies a status transition
// @Summary Update test status
// @Description Moves a test forward through its lifecycle; override permits an administrative non-forward move
// @Tags admin
// @Accept json
// @Produce json
// @Param test_id path uint true "Test ID"
// @Param status body services.UpdateStatusRequest true "Target status"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /exams/{test_id}/status [put]
func (h *AdminHandler) UpdateTestStatus(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating test status",
		"test_id", testID,
		"status", req.Status,
		"override", req.Override)

	test, err := h.testService.UpdateStatus(c.Request.Context(), testID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Test status updated",
		Data:    test,
	})
}

// ExportLeaderboard streams the standings as a download
// @Summary Export leaderboard
// @Description Exports the ranked standings as xlsx or csv
// @Tags admin
// @Produce application/octet-stream
// @Param test_id path uint true "Test ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /exams/{test_id}/leaderboard/export [get]
func (h *AdminHandler) ExportLeaderboard(c *gin.Context) {
	testID := parseUintParam(c, "test_id")
	if testID == 0 {
		return
	}

	format := c.DefaultQuery("format", "xlsx")

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "xlsx":
		data, err = h.exportService.ExportLeaderboardToExcel(c.Request.Context(), testID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, err = h.exportService.ExportLeaderboardToCSV(c.Request.Context(), testID)
		contentType = "text/csv"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}

	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard-%d.%s", testID, format)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
