package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps the service error taxonomy onto HTTP statuses in one
// place so controllers stay thin.
func respondError(ctx *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case apperr.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case apperr.IsInvalidState(err):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case apperr.IsUpstream(err):
		// A role with no key stored is "down by configuration", not a bad
		// gateway response.
		var upstream *apperr.UpstreamServiceError
		if errors.As(err, &upstream) && strings.Contains(upstream.Error(), "not configured") {
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid request body",
		Details: []string{err.Error()},
	})
}

// pathID parses a numeric path parameter; a false return means the 400 has
// already been written.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
