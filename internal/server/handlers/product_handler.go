package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/internal/service/catalog"
)

// ProductHandler exposes the product catalog.
type ProductHandler struct {
	svc       *catalog.Service
	threshold int
	logger    *zap.Logger
}

// NewProductHandler builds the handler. lowStockThreshold is the default for
// the low-stock listing.
func NewProductHandler(svc *catalog.Service, lowStockThreshold int, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, threshold: lowStockThreshold, logger: logger}
}

type productRequest struct {
	Name        string        `json:"name" binding:"required"`
	ModelNumber string        `json:"model_number" binding:"required"`
	Brand       string        `json:"brand" binding:"required"`
	Category    string        `json:"category" binding:"required"`
	Price       models.Number `json:"price" binding:"gte=0"`
	Quantity    models.Number `json:"quantity" binding:"gte=0"`
	Resolution  string        `json:"resolution"`
	LensSpec    string        `json:"lens_spec"`
	PoE         bool          `json:"poe"`
	NightVision bool          `json:"night_vision"`
	Description string        `json:"description"`
}

func (r productRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		ModelNumber: r.ModelNumber,
		Brand:       r.Brand,
		Category:    r.Category,
		Price:       r.Price.Float64(),
		Quantity:    r.Quantity.Int(),
		Resolution:  r.Resolution,
		LensSpec:    r.LensSpec,
		PoE:         r.PoE,
		NightVision: r.NightVision,
		Description: r.Description,
	}
}

func (h *ProductHandler) Add(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := h.svc.AddProduct(c.Request.Context(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "product added successfully", product)
}

// List supports the optional category, brand and q (name or model search) filters.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), models.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", products)
}

func (h *ProductHandler) Today(c *gin.Context) {
	products, err := h.svc.TodayProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", products)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	threshold := h.threshold
	if v := c.Query("threshold"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			threshold = n
		}
	}

	products, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "product updated successfully", product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "product deleted successfully", nil)
}
