package controller

import (
	"io"
	"net/http"
	"strings"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxPDFSize caps uploads at 50 MB.
const maxPDFSize = 50 << 20

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(us service.UploadService) *UploadController {
	return &UploadController{uploadService: us}
}

// UploadPDF godoc
// @Summary Upload an exam PDF and extract its questions
// @Description Extracts text from the PDF, runs LLM question extraction and persists every valid question with answers and tags. Diagram generation runs in the background.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Exam PDF"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /upload [post]
func (c *UploadController) UploadPDF(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing 'file' form field"})
		return
	}
	if fileHeader.Size > maxPDFSize {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file exceeds 50MB limit"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "only PDF files are accepted"})
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

	log.Info().Str("file", fileHeader.Filename).Int64("bytes", fileHeader.Size).Msg("Processing PDF upload")
	resp, err := c.uploadService.ProcessPDF(ctx.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UploadStatus godoc
// @Summary Get the status of an ingestion job
// @Tags Upload
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} dto.UploadJobDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /upload/status/{jobId} [get]
func (c *UploadController) UploadStatus(ctx *gin.Context) {
	job, err := c.uploadService.JobStatus(ctx.Param("jobId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, job)
}
