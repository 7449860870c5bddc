package handler

import (
	"errors"

	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func respondOK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation errors carry the field map at 422, rule violations surface
// their reason at 400, missing records become 404, everything else is an
// opaque 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}
	var rerr *service.RuleError
	if errors.As(err, &rerr) {
		return respondError(c, fiber.StatusBadRequest, rerr.Reason)
	}
	if errors.Is(err, service.ErrNotFound) {
		return respondError(c, fiber.StatusNotFound, "Record not found")
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return respondError(c, fiber.StatusInternalServerError, "Internal server error")
}

// actorFromCtx rebuilds the acting user from locals set by the auth
// middleware. Unauthenticated contexts yield a system actor with no ID.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{Name: "System"}
	if v, ok := c.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			actor.ID = &id
		}
	}
	if v, ok := c.Locals("user_name").(string); ok && v != "" {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

func metaFromCtx(c *fiber.Ctx) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
