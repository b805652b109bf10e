package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type productRequest struct {
	SKU              string     `json:"sku"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"image_url"`
	Price            float64    `json:"price"`
	Size             string     `json:"size"`
	Quantity         int        `json:"quantity"`
	CategoryID       *uuid.UUID `json:"category_id"`
	Restrictions     []string   `json:"restrictions"`
	TargetComplaints []string   `json:"target_complaints"`
	TargetGoals      []string   `json:"target_goals"`
	VitaminType      []string   `json:"vitamin_type"`
	Benefits         []string   `json:"benefits"`
	Dosage           string     `json:"dosage"`
}

func (ph *ProductHandler) ListProducts(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	products, err := ph.productService.ListProducts(c.Request.Context(), includeInactive)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_products_failed", err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

func (ph *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	product, err := ph.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "product_not_found", err)
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	product := &types.Product{
		SKU:              req.SKU,
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		Price:            req.Price,
		Size:             req.Size,
		Quantity:         req.Quantity,
		CategoryID:       req.CategoryID,
		Restrictions:     datatypes.JSONSlice[string](req.Restrictions),
		TargetComplaints: datatypes.JSONSlice[string](req.TargetComplaints),
		TargetGoals:      datatypes.JSONSlice[string](req.TargetGoals),
		VitaminType:      datatypes.JSONSlice[string](req.VitaminType),
		Benefits:         datatypes.JSONSlice[string](req.Benefits),
		Dosage:           req.Dosage,
		IsActive:         true,
	}
	created, err := ph.productService.CreateProduct(c.Request.Context(), product)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, created)
}

func (ph *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// Only whitelisted columns are updatable through the API.
	allowed := map[string]bool{
		"sku": true, "name": true, "description": true, "image_url": true,
		"price": true, "size": true, "quantity": true, "category_id": true,
		"restrictions": true, "target_complaints": true, "target_goals": true,
		"vitamin_type": true, "benefits": true, "dosage": true, "is_active": true,
	}
	for key := range fields {
		if !allowed[key] {
			delete(fields, key)
		}
	}
	product, err := ph.productService.UpdateProduct(c.Request.Context(), productID, fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := ph.productService.DeactivateProduct(c.Request.Context(), productID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_product_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": "true"})
}
