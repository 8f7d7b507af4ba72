package middleware

import (
	"errors"
	"net/http"

	"roomcast/internal/core/domain"
	apperrors "roomcast/pkg/errors"
	"roomcast/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MapError translates domain and service errors into application errors.
func MapError(err error) *apperrors.AppError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	var validationErr *domain.ValidationError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewInvalidInputError("invalid input").WithContext("fields", validationErr.Fields)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.NewDuplicateIdentityError("email already registered")
	case errors.Is(err, domain.ErrUserNotFound):
		// only reachable from login, where an unknown account is an auth failure
		return apperrors.NewAppError(apperrors.ErrCodeNotFound, "user not found", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrRoomNotFound):
		return apperrors.NewNotFoundError("room")
	case errors.Is(err, domain.ErrInvalidCredential):
		return apperrors.NewInvalidCredentialError("invalid email or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		return apperrors.NewUnauthenticatedError("bearer token required")
	case errors.Is(err, domain.ErrInvalidToken):
		return apperrors.NewInvalidTokenError("invalid or expired token")
	case errors.As(err, &storageErr):
		return apperrors.NewStorageError(err).WithContext("operation", storageErr.Op)
	default:
		return apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
	}
}

// ErrorHandlerMiddleware handles application errors and returns appropriate HTTP responses.
// Request and user ids are added by the context logger.
func ErrorHandlerMiddleware(cl *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := MapError(err)
		ctx := c.Request.Context()

		fields := []zapcore.Field{
			zap.String("code", string(appErr.Code)),
			zap.Int("status", appErr.HTTPStatus),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		}
		if roomID := c.Param("id"); roomID != "" {
			fields = append(fields, zap.String("room_id", roomID))
		}

		if appErr.HTTPStatus >= http.StatusInternalServerError {
			if op, ok := appErr.Context["operation"]; ok {
				fields = append(fields, zap.Any("operation", op))
			}
			cl.LogError(ctx, err, "request failed", fields...)
		} else {
			cl.WithContext(ctx).Info("request rejected", fields...)
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"error":   string(appErr.Code),
			"message": appErr.Message,
			"details": publicDetails(appErr),
		})
	}
}

// publicDetails drops context that is only meant for logs.
func publicDetails(appErr *apperrors.AppError) map[string]interface{} {
	if appErr.HTTPStatus >= http.StatusInternalServerError || appErr.Context == nil {
		return map[string]interface{}{}
	}
	return appErr.Context
}

// RecoveryMiddleware recovers from panics and returns proper error responses
func RecoveryMiddleware(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorw("panic recovered",
					"error", rec,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"request_id", logger.RequestIDFromContext(c.Request.Context()),
				)

				appErr := apperrors.NewInternalError("internal server error")
				c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
					"error":   string(appErr.Code),
					"message": appErr.Message,
					"details": map[string]interface{}{},
				})
			}
		}()

		c.Next()
	}
}
