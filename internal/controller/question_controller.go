package controller

import (
	"io"
	"net/http"
	"strconv"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	questionService service.QuestionService
	diagramService  service.DiagramService
}

func NewQuestionController(qs service.QuestionService, ds service.DiagramService) *QuestionController {
	return &QuestionController{questionService: qs, diagramService: ds}
}

// ListQuestions godoc
// @Summary List questions
// @Description List questions with optional category, tag and text filters. Paginated.
// @Tags Questions
// @Produce json
// @Param category_id query int false "Filter by category ID"
// @Param unclassified query bool false "Only questions without a category"
// @Param tag query string false "Filter by tag name (substring match)"
// @Param search query string false "Filter by question text (substring match)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 50)"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	var filter repository.QuestionFilter
	if raw := ctx.Query("category_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid category_id format"})
			return
		}
		id := uint(val)
		filter.CategoryID = &id
	}
	filter.Unclassified = ctx.Query("unclassified") == "true"
	filter.TagName = ctx.Query("tag")
	filter.Search = ctx.Query("search")

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	resp, err := c.questionService.List(filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestion godoc
// @Summary Get one question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	question, err := c.questionService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// CreateQuestion godoc
// @Summary Create a question manually
// @Tags Questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question with answers and optional tags"
// @Success 201 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	question, err := c.questionService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Replaces question fields. Omitting tags leaves them untouched; an empty tag list clears them.
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param question body dto.UpdateQuestionRequest true "Updated question"
// @Success 200 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	question, err := c.questionService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary Delete a question and all dependent rows
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

// GetQuestionStats godoc
// @Summary Per-question answer statistics
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionStatsDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/stats [get]
func (c *QuestionController) GetQuestionStats(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	stats, err := c.questionService.Stats(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// AutoTagQuestion godoc
// @Summary Auto-tag one question via LLM
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.EnrichmentResult
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /questions/{id}/auto-tag [post]
func (c *QuestionController) AutoTagQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.questionService.AutoTag(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// AutoTagBulk godoc
// @Summary Auto-tag a batch of questions
// @Description Items are processed independently; failures are reported per item.
// @Tags Questions
// @Accept json
// @Produce json
// @Param ids body dto.BulkQuestionIDsRequest true "Question IDs"
// @Success 200 {array} dto.EnrichmentResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/bulk-tag [post]
func (c *QuestionController) AutoTagBulk(ctx *gin.Context) {
	var req dto.BulkQuestionIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	results := c.questionService.AutoTagBulk(ctx.Request.Context(), req.QuestionIDs)
	ctx.JSON(http.StatusOK, results)
}

// AutoClassifyQuestion godoc
// @Summary Classify one question into an exam domain via LLM
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.EnrichmentResult
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /questions/{id}/auto-classify [post]
func (c *QuestionController) AutoClassifyQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.questionService.AutoClassify(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// AutoClassifyBulk godoc
// @Summary Classify a batch of questions
// @Tags Questions
// @Accept json
// @Produce json
// @Param ids body dto.BulkQuestionIDsRequest true "Question IDs"
// @Success 200 {array} dto.EnrichmentResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/bulk-classify [post]
func (c *QuestionController) AutoClassifyBulk(ctx *gin.Context) {
	var req dto.BulkQuestionIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	results := c.questionService.AutoClassifyBulk(ctx.Request.Context(), req.QuestionIDs)
	ctx.JSON(http.StatusOK, results)
}

// GenerateDiagram godoc
// @Summary Generate an architecture diagram for a question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.DiagramResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /questions/{id}/diagram/generate [post]
func (c *QuestionController) GenerateDiagram(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.diagramService.Generate(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UploadDiagram godoc
// @Summary Attach a hand-made diagram to a question
// @Tags Questions
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Question ID"
// @Param file formData file true "Diagram file (.drawio, .png, .jpg, .svg)"
// @Success 200 {object} dto.DiagramResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/diagram/upload [post]
func (c *QuestionController) UploadDiagram(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing 'file' form field"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp, err := c.diagramService.SaveUploaded(id, fileHeader.Filename, data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListTags godoc
// @Summary List all tags
// @Tags Questions
// @Produce json
// @Success 200 {array} dto.TagDTO
// @Router /questions/tags [get]
func (c *QuestionController) ListTags(ctx *gin.Context) {
	tags, err := c.questionService.ListTags()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tags)
}
