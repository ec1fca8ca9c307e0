package middleware

import (
	"errors"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the central Fiber error handler. Every service failure
// surfaces as a DomainError; this is the single place where codes become HTTP
// statuses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    string(domain.CodeValidation),
				"message": "validation failed",
				"fields":  validationErrs,
			},
		})
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if status == fiber.StatusInternalServerError {
			logger.Get().Error("internal error",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": domainErr})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    string(domain.CodeInternal),
				"message": fiberErr.Message,
			},
		})
	}

	logger.Get().Error("unhandled error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    string(domain.CodeInternal),
			"message": "an internal error occurred",
		},
	})
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeAccessDenied:
		return fiber.StatusForbidden
	case domain.CodeUnauthorized, domain.CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case domain.CodeValidation, domain.CodeSessionNotActive,
		domain.CodeSessionExpired, domain.CodeIncompleteSubmission:
		return fiber.StatusBadRequest
	case domain.CodeDuplicateUser:
		return fiber.StatusConflict
	case domain.CodeGenerationFailed:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
