package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/auth"
	"github.com/alexanderramin/meetmeter/internal/repository"
)

type errorBody struct {
	Detail string `json:"detail"`
}

// writeError translates a service error into a status code and {"detail": ...} body.
func (s *Server) writeError(c *gin.Context, err error) {
	status, detail := classify(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("path", c.Request.URL.Path), zap.Error(err)}
		var stageErr *analysis.StageError
		if errors.As(err, &stageErr) {
			fields = append(fields, zap.String("stage", string(stageErr.Stage)))
		}
		s.logger.Error("request failed", fields...)
	}
	c.JSON(status, errorBody{Detail: detail})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
}

func classify(err error) (int, string) {
	var stageErr *analysis.StageError
	switch {
	case errors.Is(err, analysis.ErrLLMNotConfigured):
		return http.StatusInternalServerError, analysis.ErrLLMNotConfigured.Error()
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		return http.StatusInternalServerError, auth.ErrOAuthNotConfigured.Error()
	case errors.Is(err, analysis.ErrCalendarNotConnected):
		return http.StatusUnauthorized, analysis.ErrCalendarNotConnected.Error()
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, auth.ErrInvalidIDToken):
		return http.StatusBadRequest, "Invalid Google token"
	case errors.As(err, &stageErr):
		return http.StatusInternalServerError, "Analysis failed: " + stageErr.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
