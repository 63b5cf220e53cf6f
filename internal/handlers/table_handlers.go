package handlers

import (
	"net/http"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.CreateTable(req)
	if err != nil {
		respondServiceError(c, err, "CreateTable: Error from tableService.CreateTable")
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables()
	if err != nil {
		respondServiceError(c, err, "GetTables: Error from tableService.GetTables")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tables})
}

func (h *TableHandler) GetTableByNumber(c *gin.Context) {
	tableNumber := c.Param("tableNumber")
	if tableNumber == "" {
		utils.RespondValidationFailed(c, "table number is required")
		return
	}

	table, err := h.tableService.GetTableByNumber(tableNumber)
	if err != nil {
		respondServiceError(c, err, "GetTableByNumber: Error from tableService.GetTableByNumber")
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c, "tableID")
	if !ok {
		return
	}
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.UpdateTable(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTable: Error from tableService.UpdateTable")
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c, "tableID")
	if !ok {
		return
	}

	if err := h.tableService.DeleteTable(id); err != nil {
		respondServiceError(c, err, "DeleteTable: Error from tableService.DeleteTable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}
