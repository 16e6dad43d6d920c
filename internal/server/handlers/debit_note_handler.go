package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/internal/service/orders"
)

type debitNoteItemRequest struct {
	ProductID   string        `json:"product_id"`
	Description string        `json:"description" binding:"required"`
	Quantity    models.Number `json:"quantity"`
	Price       models.Number `json:"price" binding:"gte=0"`
}

type debitNoteRequest struct {
	SalesOrderID  string                 `json:"sales_order_id" binding:"required"`
	CustomerName  string                 `json:"customer_name"`
	CustomerPhone string                 `json:"customer_phone"`
	Reason        string                 `json:"reason" binding:"required"`
	Items         []debitNoteItemRequest `json:"items" binding:"dive"`
	TotalAmount   *models.Number         `json:"total_amount"`
	Status        models.DebitNoteStatus `json:"status" binding:"omitempty,enum"`
}

type updateDebitNoteRequest struct {
	Reason      *string                 `json:"reason"`
	Items       []debitNoteItemRequest  `json:"items" binding:"omitempty,dive"`
	TotalAmount *models.Number          `json:"total_amount"`
	Status      *models.DebitNoteStatus `json:"status" binding:"omitempty,enum"`
}

func debitNoteItems(in []debitNoteItemRequest) []orders.DebitNoteItemInput {
	if in == nil {
		return nil
	}
	out := make([]orders.DebitNoteItemInput, len(in))
	for i, item := range in {
		out[i] = orders.DebitNoteItemInput{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity.Int(),
			Price:       item.Price.Float64(),
		}
	}
	return out
}

func (h *OrderHandler) CreateDebitNote(c *gin.Context) {
	var req debitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	note, err := h.svc.CreateDebitNote(c.Request.Context(), orders.DebitNoteInput{
		SalesOrderID:  req.SalesOrderID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Reason:        req.Reason,
		Items:         debitNoteItems(req.Items),
		TotalAmount:   req.TotalAmount.Ptr(),
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "debit note created successfully", note)
}

func (h *OrderHandler) ListDebitNotes(c *gin.Context) {
	status := models.DebitNoteStatus(c.Query("status"))
	if status != "" {
		if err := status.Validate(); err != nil {
			response.Error(c, apperr.Validation("INVALID_STATUS", err.Error()))
			return
		}
	}

	notes, err := h.svc.ListDebitNotes(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", notes)
}

func (h *OrderHandler) GetDebitNote(c *gin.Context) {
	note, err := h.svc.GetDebitNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", note)
}

func (h *OrderHandler) UpdateDebitNote(c *gin.Context) {
	var req updateDebitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	note, err := h.svc.UpdateDebitNote(c.Request.Context(), c.Param("id"), orders.DebitNoteUpdate{
		Reason:      req.Reason,
		Items:       debitNoteItems(req.Items),
		TotalAmount: req.TotalAmount.Ptr(),
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "debit note updated successfully", note)
}

func (h *OrderHandler) DeleteDebitNote(c *gin.Context) {
	if err := h.svc.DeleteDebitNote(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "debit note deleted successfully", nil)
}
