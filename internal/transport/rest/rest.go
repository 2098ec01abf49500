package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// StatusOf переводит категорию ошибки в HTTP-статус
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorHandler отвечает на последнюю ошибку, которую обработчик положил в c.Errors.
// Текст внутренних ошибок наружу не уходит.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		status := StatusOf(last.Err)
		message := last.Err.Error()
		if status == http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(last.Err),
			)
			message = http.StatusText(http.StatusInternalServerError)
		}
		c.JSON(status, ErrorResponse{ErrorMessage: message})
	}
}

// fail кладет ошибку в контекст и прерывает цепочку
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// idParam достает id сущности из пути. id пользователей, профилей и постов - UUID.
func idParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, apperror.Validation("invalid %s: %q is not a uuid", name, id))
		return "", false
	}
	return id, true
}

// bind разбирает JSON-тело и проверяет binding-теги
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperror.New(apperror.KindValidation, "invalid request body", err))
		return false
	}
	return true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NoRoute отвечает 404 в том же формате, что и остальные ошибки
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{ErrorMessage: "route not found"})
}
