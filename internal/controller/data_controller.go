package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DataController struct {
	dataService service.DataService
}

func NewDataController(ds service.DataService) *DataController {
	return &DataController{dataService: ds}
}

// ExportData godoc
// @Summary Download the whole database as a JSON backup
// @Tags Data
// @Produce json
// @Success 200 {object} service.DataExport
// @Failure 500 {object} dto.ErrorResponse
// @Router /data/export [get]
func (c *DataController) ExportData(ctx *gin.Context) {
	export, err := c.dataService.Export()
	if err != nil {
		respondError(ctx, err)
		return
	}
	filename := fmt.Sprintf("exam-backup-%s.json", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.JSON(http.StatusOK, export)
}

// ImportData godoc
// @Summary Restore the database from a JSON backup
// @Description Replaces all tables atomically; a failed import leaves the store untouched.
// @Tags Data
// @Accept json
// @Produce json
// @Param backup body service.DataExport true "Backup produced by the export endpoint"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /data/import [post]
func (c *DataController) ImportData(ctx *gin.Context) {
	var data service.DataExport
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := c.dataService.Import(&data); err != nil {
		respondError(ctx, err)
		return
	}
	log.Info().Msg("Database restored from backup")
	ctx.JSON(http.StatusOK, gin.H{"message": "import completed"})
}
