package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kintree/backend/pkg/apperrors"
)

// statusFor maps the error taxonomy onto HTTP statuses. Anything outside the
// taxonomy is an internal error.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": errMessage(err)})
}

func (s *Server) abortError(c *gin.Context, err error) {
	s.respondError(c, err)
	c.Abort()
}

func errMessage(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
