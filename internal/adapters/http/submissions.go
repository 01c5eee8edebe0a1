package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// ContactHandler accepts a contact form message.
func ContactHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var msg domain.ContactMessage
		if err := c.BodyParser(&msg); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		sub, err := deps.Submissions.SubmitContact(c.UserContext(), msg)
		if err != nil {
			return submissionError(c, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"id":      sub.ID,
			"message": "Melding sendt!",
		})
	}
}

// ReviewHandler accepts a visitor review of a course.
func ReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var review domain.Review
		if err := c.BodyParser(&review); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		sub, err := deps.Submissions.SubmitReview(c.UserContext(), review)
		if err != nil {
			return submissionError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      sub.ID,
			"message": "Takk for din anmeldelse!",
		})
	}
}

func submissionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidSubmission) {
		return errBadRequest(c, err.Error())
	}
	slog.ErrorContext(c.UserContext(), "submission delivery failed", "error", err)
	return errInternal(c, "Kunne ikke sende meldingen. Vennligst prøv igjen senere.")
}
