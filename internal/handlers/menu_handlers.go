package handlers

import (
	"net/http"
	"strconv"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// --- Categories ---

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.menuService.CreateCategory(req)
	if err != nil {
		respondServiceError(c, err, "CreateCategory: Error from menuService.CreateCategory")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.GetCategories()
	if err != nil {
		respondServiceError(c, err, "GetCategories: Error from menuService.GetCategories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.menuService.UpdateCategory(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCategory: Error from menuService.UpdateCategory")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}

	if err := h.menuService.DeleteCategory(id); err != nil {
		respondServiceError(c, err, "DeleteCategory: Error from menuService.DeleteCategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// --- Menu items ---

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req services.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.menuService.CreateMenuItem(req)
	if err != nil {
		respondServiceError(c, err, "CreateMenuItem: Error from menuService.CreateMenuItem")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	page, pageSize := parsePagination(c)
	availableOnly := c.Query("available_only") == "true"

	var categoryID *int64
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			utils.RespondValidationFailed(c, "invalid category_id parameter")
			return
		}
		categoryID = &id
	}

	items, total, err := h.menuService.GetMenuItems(categoryID, availableOnly, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetMenuItems: Error from menuService.GetMenuItems")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	item, err := h.menuService.GetMenuItemByID(id)
	if err != nil {
		respondServiceError(c, err, "GetMenuItemByID: Error from menuService.GetMenuItemByID")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	var req services.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.menuService.UpdateMenuItem(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateMenuItem: Error from menuService.UpdateMenuItem")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenuItem(id); err != nil {
		respondServiceError(c, err, "DeleteMenuItem: Error from menuService.DeleteMenuItem")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
