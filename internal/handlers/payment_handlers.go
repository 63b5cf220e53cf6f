package handlers

import (
	"net/http"

	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// ProcessPayment settles an order with one or more tenders.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}
	var req services.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	payment, err := h.paymentService.ProcessPayment(orderID, req)
	if err != nil {
		respondServiceError(c, err, "ProcessPayment: Error from paymentService.ProcessPayment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GetPaymentByOrderID fetches the settlement record of an order.
func (h *PaymentHandler) GetPaymentByOrderID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPaymentByOrderID(orderID)
	if err != nil {
		respondServiceError(c, err, "GetPaymentByOrderID: Error from paymentService.GetPaymentByOrderID")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// GenerateBill produces a printable bill for an order.
func (h *PaymentHandler) GenerateBill(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}

	bill, err := h.paymentService.GenerateBill(orderID)
	if err != nil {
		respondServiceError(c, err, "GenerateBill: Error from paymentService.GenerateBill")
		return
	}
	c.JSON(http.StatusOK, bill)
}
