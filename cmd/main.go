package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"civicscan/internal/config"
	"civicscan/internal/core/approve"
	"civicscan/internal/core/ingest"
	"civicscan/internal/core/public"
	"civicscan/internal/core/registry"
	"civicscan/internal/core/render"
	"civicscan/internal/logger"
	rds "civicscan/internal/platform/redis"
	tasks "civicscan/internal/platform/tasks"
	"civicscan/internal/server"
	"civicscan/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log.Printf("[civicscan] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		// bounds concurrent renders: browser sessions are the expensive part
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{"default": 1},
	})

	jobStore := ingest.NewRedisStore(redisSvc)
	approvalStore := registry.NewRedisStore(redisSvc)
	renderSvc := render.NewService(cfg)
	ingestSvc := ingest.NewService(cfg, jobStore, renderSvc, taskClient)
	approveSvc := approve.NewService(jobStore, approvalStore)
	publicSvc := public.NewService(approvalStore)

	mux := worker.NewMux()
	mux.HandleFunc(ingest.TaskTypeIngest, ingestSvc.HandleIngestTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "Civicscan Engine",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})
	// rendered page artifacts referenced by job results
	app.Static("/files", cfg.DataDir)

	deps := server.Dependencies{
		Ingest:  ingestSvc,
		Approve: approveSvc,
		Public:  publicSvc,
		Redis:   redisSvc,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	go func() {
		time.Sleep(2 * time.Second)
		healthHandler.SetReady()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = taskClient.Close()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
