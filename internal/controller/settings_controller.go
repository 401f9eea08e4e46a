package controller

import (
	"net/http"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(ss service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: ss}
}

// ListLLMConfigs godoc
// @Summary List per-role LLM configurations
// @Description API keys are masked; only the last 4 characters are shown.
// @Tags Settings
// @Produce json
// @Success 200 {array} dto.LLMConfigDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /settings/llm [get]
func (c *SettingsController) ListLLMConfigs(ctx *gin.Context) {
	configs, err := c.settingsService.ListConfigs()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, configs)
}

// GetLLMConfig godoc
// @Summary Get one role's LLM configuration
// @Tags Settings
// @Produce json
// @Param role path string true "LLM role (LLM1 | LLM2 | LLM3)"
// @Success 200 {object} dto.LLMConfigDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /settings/llm/{role} [get]
func (c *SettingsController) GetLLMConfig(ctx *gin.Context) {
	config, err := c.settingsService.GetConfig(ctx.Param("role"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, config)
}

// UpdateLLMConfig godoc
// @Summary Update one role's LLM configuration
// @Description Sending back the masked API key keeps the stored key unchanged.
// @Tags Settings
// @Accept json
// @Produce json
// @Param role path string true "LLM role (LLM1 | LLM2 | LLM3)"
// @Param config body dto.UpdateLLMConfigRequest true "New configuration"
// @Success 200 {object} dto.LLMConfigDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /settings/llm/{role} [put]
func (c *SettingsController) UpdateLLMConfig(ctx *gin.Context) {
	var req dto.UpdateLLMConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	config, err := c.settingsService.UpdateConfig(ctx.Param("role"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, config)
}
