package handlers

import (
	"net/http"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftHandler holds the shift service.
type ShiftHandler struct {
	shiftService services.ShiftService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(ss services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: ss}
}

// OpenShift opens the cash drawer for a trading period.
func (h *ShiftHandler) OpenShift(c *gin.Context) {
	var req services.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.OpenShift(req)
	if err != nil {
		respondServiceError(c, err, "OpenShift: Error from shiftService.OpenShift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// CloseShift reconciles declared cash and closes the active shift.
func (h *ShiftHandler) CloseShift(c *gin.Context) {
	var req services.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.CloseShift(req)
	if err != nil {
		respondServiceError(c, err, "CloseShift: Error from shiftService.CloseShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetActiveShift fetches the currently open shift.
func (h *ShiftHandler) GetActiveShift(c *gin.Context) {
	shift, err := h.shiftService.GetActiveShift()
	if err != nil {
		respondServiceError(c, err, "GetActiveShift: Error from shiftService.GetActiveShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetShiftByID fetches one shift record.
func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	id, ok := parseIDParam(c, "shiftID")
	if !ok {
		return
	}

	shift, err := h.shiftService.GetShiftByID(id)
	if err != nil {
		respondServiceError(c, err, "GetShiftByID: Error from shiftService.GetShiftByID")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetShifts lists shift history with pagination.
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	shifts, total, err := h.shiftService.GetShifts(page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetShifts: Error from shiftService.GetShifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      shifts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// XReport returns the running totals of the active shift without closing.
func (h *ShiftHandler) XReport(c *gin.Context) {
	report, err := h.shiftService.XReport()
	if err != nil {
		respondServiceError(c, err, "XReport: Error from shiftService.XReport")
		return
	}
	c.JSON(http.StatusOK, report)
}
