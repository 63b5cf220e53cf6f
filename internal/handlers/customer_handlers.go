package handlers

import (
	"net/http"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(req)
	if err != nil {
		respondServiceError(c, err, "CreateCustomer: Error from customerService.CreateCustomer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	customers, total, err := h.customerService.GetCustomers(page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetCustomers: Error from customerService.GetCustomers")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      customers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *CustomerHandler) GetCustomerByPhone(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		utils.RespondValidationFailed(c, "phone is required")
		return
	}

	customer, err := h.customerService.GetCustomerByPhone(phone)
	if err != nil {
		respondServiceError(c, err, "GetCustomerByPhone: Error from customerService.GetCustomerByPhone")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		utils.RespondValidationFailed(c, "phone is required")
		return
	}
	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(phone, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCustomer: Error from customerService.UpdateCustomer")
		return
	}
	c.JSON(http.StatusOK, customer)
}
