package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("decode_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func unsupported(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(422).
		WithInstance(c.Path()).
		WithType("unsupported_trigger").
		WithDetail(detail)

	return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
}

func upstreamError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(502).
		WithInstance(c.Path()).
		WithType("pipeline_error").
		WithError(err)

	return c.Status(fiber.StatusBadGateway).JSON(problem)
}
