package ingest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

type createJobRequest struct {
	URL string `json:"url"`
}

// HandleCreateJob accepts a URL and answers 202 with the queued job; the
// render always happens after the response.
func (h *Handler) HandleCreateJob(c *fiber.Ctx) error {
	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid body"})
	}

	job, err := h.service.Submit(c.Context(), req.URL)
	if err != nil {
		if errors.Is(err, ErrInvalidURL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(job)
}

func (h *Handler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	summaries := make([]Summary, 0, len(jobs))
	for _, j := range jobs {
		summaries = append(summaries, j.Summary())
	}
	return c.JSON(summaries)
}

func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	job, err := h.service.Get(c.Context(), c.Params("jobId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "job not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(job)
}
