// Package response provides JSON response helpers for fiber handlers.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	dErrors "choreblimey/internal/errors"
)

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"data": data})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func Error(c *fiber.Ctx, status int, code, message string, details map[string]any) error {
	body := fiber.Map{"error": fiber.Map{"code": code, "message": message}}
	if details != nil {
		body["error"].(fiber.Map)["details"] = details
	}
	return c.Status(status).JSON(body)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, dErrors.CodeValidation, message, nil)
}

func InternalError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, dErrors.CodeStorageFailure, message, nil)
}

// Domain maps a service error to the right HTTP status. Precondition
// failures are client errors; anything untyped is a system fault.
func Domain(c *fiber.Ctx, err error) error {
	var domainErr *dErrors.DomainError
	if !errors.As(err, &domainErr) {
		return InternalError(c, "request failed")
	}

	status := fiber.StatusInternalServerError
	switch domainErr.Code {
	case dErrors.CodeValidation, dErrors.CodeAmountMismatch:
		status = fiber.StatusBadRequest
	case dErrors.CodeWalletNotFound:
		status = fiber.StatusNotFound
	case dErrors.CodeInvalidGiftSelection, dErrors.CodeInsufficientBalance:
		status = fiber.StatusConflict
	}
	return Error(c, status, domainErr.Code, domainErr.Message, domainErr.Details)
}
