package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"civicscan/internal/config"
	"civicscan/internal/core/extract"
	"civicscan/internal/core/render"
	"civicscan/internal/logger"
)

const TaskTypeIngest = "ingest:task"

// ErrInvalidURL is returned for submissions that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid url")

// Renderer produces fully-settled HTML for a target page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// TaskEnqueuer schedules background work on the worker pool.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, queue string, maxRetries int) error
}

type taskPayload struct {
	JobID string `json:"job_id"`
	URL   string `json:"url"`
}

type Service struct {
	log      *logger.Logger
	cfg      config.Config
	store    Store
	renderer Renderer
	tasks    TaskEnqueuer
}

func NewService(cfg config.Config, store Store, renderer Renderer, tasks TaskEnqueuer) *Service {
	return &Service{log: logger.New("IngestService"), cfg: cfg, store: store, renderer: renderer, tasks: tasks}
}

// Submit validates the URL, persists a queued job and schedules its
// background execution. It returns before the render starts; callers
// observe progress by polling.
func (s *Service) Submit(ctx context.Context, rawURL string) (*Job, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		URL:       rawURL,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, job); err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(taskPayload{JobID: job.ID, URL: job.URL})
	// MaxRetry 0: a failed render is terminal, resubmission means a new job.
	if err := s.tasks.Enqueue(asynq.NewTask(TaskTypeIngest, payload), "default", 0); err != nil {
		return nil, err
	}

	s.log.Info().Str("job_id", job.ID).Str("url", job.URL).Msg("job queued")
	return job, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Job, error) {
	return s.store.List(ctx)
}

// HandleIngestTask is the asynq worker entrypoint. Render and extract
// failures never bubble up to asynq: they are converted into the job's
// error field so the worker never retries or crashes on a bad page.
func (s *Service) HandleIngestTask(ctx context.Context, task *asynq.Task) error {
	var p taskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		s.log.LogErrorf("malformed ingest payload: %v", err)
		return nil
	}
	return s.runJob(ctx, p.JobID)
}

func (s *Service) runJob(ctx context.Context, jobID string) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		s.log.LogErrorf("run: load job %s: %v", jobID, err)
		return nil
	}
	if job.Status.Terminal() {
		s.log.LogWarnf("run: job %s already %s, skipping", job.ID, job.Status)
		return nil
	}

	job.Status = StatusRunning
	job.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, job); err != nil {
		s.log.LogErrorf("run: persist running %s: %v", job.ID, err)
		return nil
	}

	html, err := s.renderer.Render(ctx, job.URL)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	res := extract.FromHTML(html)

	ref, err := s.saveRendered(job.ID, html)
	if err != nil {
		return s.fail(ctx, job, fmt.Errorf("%w: persist rendered html: %v", render.ErrRender, err))
	}

	job.Status = StatusSuccess
	job.UpdatedAt = time.Now().UTC()
	job.Result = &JobResult{
		RenderedHTMLReference: ref,
		Entities:              Entities{Parties: res.Parties, Candidates: res.Candidates},
		RawTextSample:         res.RawTextSample,
	}
	if err := s.store.Save(ctx, job); err != nil {
		s.log.LogErrorf("run: persist success %s: %v", job.ID, err)
	}
	s.log.Info().Str("job_id", job.ID).Int("parties", len(res.Parties)).Int("candidates", len(res.Candidates)).Msg("job succeeded")
	return nil
}

func (s *Service) fail(ctx context.Context, job *Job, cause error) error {
	msg := errorMessage(cause)
	job.Status = StatusError
	job.UpdatedAt = time.Now().UTC()
	job.Error = &msg
	if err := s.store.Save(ctx, job); err != nil {
		s.log.LogErrorf("run: persist error %s: %v", job.ID, err)
	}
	s.log.Warn().Str("job_id", job.ID).Str("error", msg).Msg("job failed")
	return nil
}

// errorMessage derives the stored message from the failure kind, so a
// moderator polling the job can tell a slow page from a broken one.
func errorMessage(err error) string {
	if errors.Is(err, render.ErrTimeout) {
		return fmt.Sprintf("RenderTimeout: %v", err)
	}
	return fmt.Sprintf("RenderError: %v", err)
}

// saveRendered writes the rendered document under the data dir and returns
// the public path it is served from.
func (s *Service) saveRendered(jobID, html string) (string, error) {
	dir := filepath.Join(s.cfg.DataDir, "renders")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := jobID + ".html"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(html), 0o644); err != nil {
		return "", err
	}
	return "/files/renders/" + name, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidURL, raw)
	}
	return nil
}
