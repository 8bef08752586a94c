// Package web exposes the manual trigger-submission HTTP surface.
package web

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/avsworks/artisan/pkg/trigger"
)

// Runner is the pipeline entry point the handlers drive.
type Runner interface {
	Run(ctx context.Context, action trigger.TriggerAction) ([]byte, error)
}

type Handlers struct {
	runner Runner
	logger *slog.Logger
}

func NewHandlers(runner Runner, logger *slog.Logger) *Handlers {
	return &Handlers{
		runner: runner,
		logger: logger.With("module", "web"),
	}
}

// SubmitTrigger accepts a full TriggerAction document, runs the pipeline
// once, and returns the hex-encoded response envelope.
func (h *Handlers) SubmitTrigger(c fiber.Ctx) error {
	body := c.Body()

	if err := validateTriggerBody(body); err != nil {
		return badRequest(c, "Invalid trigger document: "+err.Error())
	}

	var action trigger.TriggerAction
	if err := json.Unmarshal(body, &action); err != nil {
		return badRequest(c, "Malformed trigger JSON: "+err.Error())
	}

	// Classify the payload before running so unsupported variants map to
	// a distinct status without touching any upstream service.
	req, err := trigger.DecodeMintRequest(action)
	if err != nil {
		if errors.Is(err, trigger.ErrRawTriggerNotImplemented) || errors.Is(err, trigger.ErrUnsupportedTriggerData) {
			return unsupported(c, err.Error())
		}

		return badRequest(c, err.Error())
	}

	response, err := h.runner.Run(c.Context(), action)
	if err != nil {
		h.logger.Error("Pipeline failed", "trigger_id", req.TriggerID, "error", err)

		return upstreamError(c, err)
	}

	if response == nil {
		return c.Status(fiber.StatusNoContent).Send(nil)
	}

	return c.JSON(fiber.Map{
		"trigger_id":   req.TriggerID,
		"trigger_kind": req.Kind.String(),
		"response":     hex.EncodeToString(response),
	})
}
