package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := ch.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_categories_failed", err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

func (ch *CategoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category := &types.VitaminCategory{
		Name:        req.Name,
		Description: req.Description,
	}
	created, err := ch.categoryService.CreateCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, created)
}

func (ch *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	category, err := ch.categoryService.UpdateCategory(c.Request.Context(), categoryID, fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, category)
}

func (ch *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := ch.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_category_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": "true"})
}
