package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/server/middleware"
	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/internal/service/invoice"
	"github.com/mamadbah2/cctvstore/internal/service/orders"
	"github.com/mamadbah2/cctvstore/internal/service/reporting"
)

// OrderHandler exposes sales orders, their invoices, debit notes and the
// daily summary.
type OrderHandler struct {
	svc       *orders.Service
	invoices  *invoice.Renderer
	reporting *reporting.Service
	logger    *zap.Logger
}

func NewOrderHandler(svc *orders.Service, invoices *invoice.Renderer, reports *reporting.Service, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{svc: svc, invoices: invoices, reporting: reports, logger: logger}
}

type orderItemRequest struct {
	ProductID       string         `json:"product_id" binding:"required"`
	Quantity        models.Number  `json:"quantity"`
	Price           *models.Number `json:"price"`
	DiscountPercent *models.Number `json:"discount_percent"`
	TaxPercent      *models.Number `json:"tax_percent"`
}

type createOrderRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerPhone   string               `json:"customer_phone" binding:"required"`
	CustomerEmail   string               `json:"customer_email" binding:"omitempty,email"`
	CustomerAddress string               `json:"customer_address"`
	Items           []orderItemRequest   `json:"items" binding:"required,min=1,dive"`
	TaxPercent      models.Number        `json:"tax_percent"`
	DiscountPercent models.Number        `json:"discount_percent"`
	DiscountAmount  models.Number        `json:"discount_amount"`
	PaymentStatus   models.PaymentStatus `json:"payment_status" binding:"omitempty,enum"`
	Notes           string               `json:"notes"`
}

type statusRequest struct {
	PaymentStatus *models.PaymentStatus `json:"payment_status" binding:"omitempty,enum"`
	OrderStatus   *models.OrderStatus   `json:"order_status" binding:"omitempty,enum"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items := make([]orders.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = orders.ItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity.Int(),
			Price:           item.Price.Ptr(),
			DiscountPercent: item.DiscountPercent.Ptr(),
			TaxPercent:      item.TaxPercent.Ptr(),
		}
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), orders.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		TaxPercent:      req.TaxPercent.Float64(),
		DiscountPercent: req.DiscountPercent.Float64(),
		DiscountAmount:  req.DiscountAmount.Float64(),
		PaymentStatus:   req.PaymentStatus,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.Logger(c, h.logger).Info("order placed", zap.String("order_number", order.OrderNumber))
	response.Created(c, "sales order created successfully", order)
}

// List supports payment_status, order_status and an inclusive from/to date range.
func (h *OrderHandler) List(c *gin.Context) {
	filter := models.OrderFilter{
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		OrderStatus:   models.OrderStatus(c.Query("order_status")),
	}
	if filter.PaymentStatus != "" {
		if err := filter.PaymentStatus.Validate(); err != nil {
			response.Error(c, apperr.Validation("INVALID_STATUS", err.Error()))
			return
		}
	}
	if filter.OrderStatus != "" {
		if err := filter.OrderStatus.Validate(); err != nil {
			response.Error(c, apperr.Validation("INVALID_STATUS", err.Error()))
			return
		}
	}
	if from := c.Query("from"); from != "" {
		day, err := h.reporting.ParseDay(from)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.From = day.UTC()
	}
	if to := c.Query("to"); to != "" {
		day, err := h.reporting.ParseDay(to)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.To = day.AddDate(0, 0, 1).UTC()
	}

	list, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", list)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	order, err := h.svc.UpdateOrderStatus(c.Request.Context(), c.Param("id"), orders.StatusUpdate{
		PaymentStatus: req.PaymentStatus,
		OrderStatus:   req.OrderStatus,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "order status updated", order)
}

// Invoice streams the order as a PDF attachment.
func (h *OrderHandler) Invoice(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.invoices.Render(order)
	if err != nil {
		response.Error(c, apperr.Internal(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, invoice.Filename(order)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Summary returns the live sales summary for ?date=YYYY-MM-DD (default today).
func (h *OrderHandler) Summary(c *gin.Context) {
	day, err := h.reporting.ParseDay(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.reporting.BuildDailySummary(c.Request.Context(), day)
	if err != nil {
		response.Error(c, apperr.Internal(err))
		return
	}
	response.OK(c, "", summary)
}
