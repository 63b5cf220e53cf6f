package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto the standard API error
// envelope. Unknown errors become opaque 500s.
func respondServiceError(c *gin.Context, err error, action string) {
	utils.LogError(err, action)

	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeInsufficientStock,
			"Insufficient stock.", stockErr.Error()))
	case errors.Is(err, services.ErrLockConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
			"A concurrent operation holds this item. Retry.", err.Error()))
	case errors.Is(err, services.ErrAlreadyPaid):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInvalidState,
			"Order is already paid.", err.Error()))
	case errors.Is(err, services.ErrActiveShiftExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
			"An active shift is already open.", err.Error()))
	case errors.Is(err, services.ErrInvalidState):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInvalidState,
			"Operation not allowed in the current state.", err.Error()))
	case errors.Is(err, services.ErrDuplicateRecord):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
			"Record already exists.", err.Error()))
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrStockItemNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrShiftNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNoActiveShift):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound,
			"Requested record not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError,
			"Internal error.", "Internal error"))
	}
}

// parseIDParam reads an int64 path parameter, responding with 400 on
// malformed input.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// parsePagination reads page/page_size query parameters with defaults.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}
