package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalab/vitashop-backend/internal/requestdata"
	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (oh *OrderHandler) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	order, err := oh.orderService.CreateOrder(c.Request.Context(), rd.UserID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, order)
}

func (oh *OrderHandler) GetOrders(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	orders, err := oh.orderService.GetUserOrders(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_orders_failed", err)
		return
	}
	RespondOK(c, gin.H{"orders": orders})
}

func (oh *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	order, err := oh.orderService.GetOrder(c.Request.Context(), rd.UserID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotOwned) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		RespondError(c, http.StatusNotFound, "order_not_found", err)
		return
	}
	RespondOK(c, order)
}

func (oh *OrderHandler) GetOrderSummary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	summary, err := oh.orderService.GetOrderSummary(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "order_summary_failed", err)
		return
	}
	RespondOK(c, summary)
}

func (oh *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	order, err := oh.orderService.CancelOrder(c.Request.Context(), rd.UserID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	RespondOK(c, order)
}

func (oh *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := oh.orderService.ListOrders(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_orders_failed", err)
		return
	}
	RespondOK(c, gin.H{"orders": orders})
}

func (oh *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req struct {
		Status types.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	order, err := oh.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, order)
}
