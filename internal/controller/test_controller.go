package controller

import (
	"net/http"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type TestController struct {
	testService service.TestService
}

func NewTestController(ts service.TestService) *TestController {
	return &TestController{testService: ts}
}

// ListTests godoc
// @Summary List all tests with their question counts
// @Tags Tests
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.testService.List()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary Get a test with its full ordered question list
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.TestDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	test, err := c.testService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// GetTestQuestions godoc
// @Summary Get a test's questions without answer options
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.TestDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/questions [get]
func (c *TestController) GetTestQuestions(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	test, err := c.testService.GetQuestions(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// CreateTest godoc
// @Summary Create a test from an explicit question ID list
// @Description Input order of question_ids becomes the test's question order.
// @Tags Tests
// @Accept json
// @Produce json
// @Param test body dto.CreateTestRequest true "Test definition"
// @Success 201 {object} dto.CreateTestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req dto.CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.testService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// CreateTestWithSelection godoc
// @Summary Create a test from a selection policy
// @Description Runs the question selector (random/weighted/new/wrong/flagged) and persists the result.
// @Tags Tests
// @Accept json
// @Produce json
// @Param test body dto.CreateTestWithSelectionRequest true "Test name plus selection criteria"
// @Success 201 {object} dto.CreateTestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tests/create-with-selection [post]
func (c *TestController) CreateTestWithSelection(ctx *gin.Context) {
	var req dto.CreateTestWithSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.testService.CreateWithSelection(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GenerateTest godoc
// @Summary Generate a random test by category/tag criteria
// @Tags Tests
// @Accept json
// @Produce json
// @Param criteria body dto.GenerateTestRequest true "Generation criteria"
// @Success 201 {object} dto.CreateTestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tests/generate [post]
func (c *TestController) GenerateTest(ctx *gin.Context) {
	var req dto.GenerateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.testService.Generate(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateTest godoc
// @Summary Replace a test's name and question list
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param test body dto.UpdateTestRequest true "New test definition"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := c.testService.Update(id, req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "test updated"})
}

// DeleteTest godoc
// @Summary Delete a test
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.testService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "test deleted"})
}

// PreviewSelection godoc
// @Summary Preview a selection without persisting anything
// @Tags Tests
// @Accept json
// @Produce json
// @Param criteria body dto.SelectionRequest true "Selection criteria"
// @Success 200 {object} dto.SelectionPreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tests/preview [post]
func (c *TestController) PreviewSelection(ctx *gin.Context) {
	var req dto.SelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.testService.Preview(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PoolStats godoc
// @Summary Question pool statistics for the test builder
// @Tags Tests
// @Produce json
// @Success 200 {object} dto.PoolStatsDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/stats [get]
func (c *TestController) PoolStats(ctx *gin.Context) {
	stats, err := c.testService.Stats()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
