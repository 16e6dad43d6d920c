package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/internal/service/suppliers"
)

// SupplierHandler exposes supplier master data.
type SupplierHandler struct {
	svc    *suppliers.Service
	logger *zap.Logger
}

func NewSupplierHandler(svc *suppliers.Service, logger *zap.Logger) *SupplierHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierHandler{svc: svc, logger: logger}
}

type supplierRequest struct {
	Name          string                `json:"name" binding:"required"`
	ContactPerson string                `json:"contact_person"`
	Email         string                `json:"email" binding:"omitempty,email"`
	Phone         string                `json:"phone" binding:"required"`
	Address       string                `json:"address"`
	GSTNumber     string                `json:"gst_number"`
	PANNumber     string                `json:"pan_number"`
	Bank          models.BankDetails    `json:"bank"`
	Status        models.SupplierStatus `json:"status" binding:"omitempty,enum"`
}

func (r supplierRequest) input() suppliers.Input {
	return suppliers.Input{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		GSTNumber:     r.GSTNumber,
		PANNumber:     r.PANNumber,
		Bank:          r.Bank,
		Status:        r.Status,
	}
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "supplier created successfully", supplier)
}

func (h *SupplierHandler) List(c *gin.Context) {
	status := models.SupplierStatus(c.Query("status"))
	if status != "" {
		if err := status.Validate(); err != nil {
			response.Error(c, apperr.Validation("INVALID_STATUS", err.Error()))
			return
		}
	}

	list, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", list)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", supplier)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "supplier updated successfully", supplier)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "supplier deleted successfully", nil)
}
