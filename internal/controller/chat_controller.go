package controller

import (
	"net/http"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chatService service.ChatService
}

func NewChatController(cs service.ChatService) *ChatController {
	return &ChatController{chatService: cs}
}

// Chat godoc
// @Summary Ask the study mentor about an exam question
// @Tags Chat
// @Accept json
// @Produce json
// @Param chat body dto.ChatRequest true "Message, optional question context and history"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Mentor LLM not configured or unreachable"
// @Router /chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.chatService.Ask(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ChatStatus godoc
// @Summary Whether the mentor LLM role is configured
// @Tags Chat
// @Produce json
// @Success 200 {object} dto.ChatStatusResponse
// @Router /chat/status [get]
func (c *ChatController) ChatStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.chatService.Status())
}
