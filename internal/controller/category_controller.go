package controller

import (
	"net/http"

	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(cs service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: cs}
}

// ListCategories godoc
// @Summary List exam domains with their certification
// @Tags Categories
// @Produce json
// @Success 200 {array} dto.CategoryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.categoryService.List()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get one exam domain with its question count
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.CategoryDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	category, err := c.categoryService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// CategoryStats godoc
// @Summary Question counts per domain plus unclassified total
// @Tags Categories
// @Produce json
// @Success 200 {object} dto.CategoryStatsOverview
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories/stats/overview [get]
func (c *CategoryController) CategoryStats(ctx *gin.Context) {
	stats, err := c.categoryService.StatsOverview()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
