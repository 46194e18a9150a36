package server

import (
	"github.com/gofiber/fiber/v2"

	"civicscan/internal/core/approve"
	"civicscan/internal/core/ingest"
	"civicscan/internal/core/public"
	"civicscan/internal/health"
	"civicscan/internal/platform/redis"
)

type Dependencies struct {
	Ingest  *ingest.Service
	Approve *approve.Service
	Public  *public.Service
	Redis   *redis.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	healthHandler := health.NewHealthHandler(d.Redis)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	ingestHandler := ingest.NewHandler(d.Ingest)
	approveHandler := approve.NewHandler(d.Approve)
	ing := api.Group("/ingest")
	ing.Post("/jobs", ingestHandler.HandleCreateJob)
	ing.Get("/jobs", ingestHandler.HandleListJobs)
	ing.Get("/jobs/:jobId", ingestHandler.HandleGetJob)
	// approval requires admin identity in production; gating lives with the
	// auth collaborator, not here
	ing.Post("/extracted/:kind/:index/approve", approveHandler.HandleApprove)

	publicHandler := public.NewHandler(d.Public)
	pub := api.Group("/public")
	pub.Get("/parties", publicHandler.HandleListParties)
	pub.Get("/candidates", publicHandler.HandleListCandidates)

	return healthHandler
}
