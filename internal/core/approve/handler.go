package approve

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"civicscan/internal/core/ingest"
	"civicscan/internal/core/registry"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

type approveRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// HandleApprove finalizes the proposal at /extracted/:kind/:index/approve.
// Approval errors are synchronous: the caller sees them immediately, unlike
// render failures which only ever surface on the job record.
func (h *Handler) HandleApprove(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "index must be an integer"})
	}

	var req approveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid body"})
		}
	}

	approved, err := h.service.Approve(c.Context(), c.Params("kind"), index, req.Payload, c.Query("job_id"))
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrInvalidKind), errors.Is(err, ErrInvalidState), errors.Is(err, ErrMissingName):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		case errors.Is(err, ingest.ErrNotFound), errors.Is(err, ErrIndexOutOfRange):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"status": "ok", "approved": approved})
}
