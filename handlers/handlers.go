package handlers

import (
	"errors"
	"log"

	"github.com/cod31nvictus/selfky/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Msg})
	}

	var preconditionErr *models.PreconditionError
	if errors.As(err, &preconditionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": preconditionErr.Msg})
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	}

	var externalErr *models.ExternalServiceError
	if errors.As(err, &externalErr) {
		log.Printf("🔥 External service failure: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "A required service is unavailable, please try again later"})
	}

	var consistencyErr *models.ConsistencyError
	if errors.As(err, &consistencyErr) {
		log.Printf("🔥 CONSISTENCY: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment state inconsistency detected, our team has been notified"})
	}

	log.Printf("🔥 Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// currentUserID extracts the caller's id from the verified JWT.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("missing token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("malformed token claims")
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}

func isAdmin(c *fiber.Ctx) bool {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}
