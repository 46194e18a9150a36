package approve

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, svc *Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/v1/ingest/extracted/:kind/:index/approve", NewHandler(svc).HandleApprove)
	return app
}

func postApprove(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(http.MethodPost, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestHandleApproveFromJob(t *testing.T) {
	job := successfulJob("job-1")
	svc, _ := newTestService(job)
	app := newTestApp(t, svc)

	resp, body := postApprove(t, app, "/v1/ingest/extracted/party/0/approve?job_id=job-1", `{"payload":{}}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	approved := body["approved"].(map[string]any)
	assert.Equal(t, "Awami League", approved["name"])
}

func TestHandleApproveErrorMapping(t *testing.T) {
	job := successfulJob("job-1")
	svc, _ := newTestService(job)
	app := newTestApp(t, svc)

	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"invalid kind", "/v1/ingest/extracted/politician/0/approve?job_id=job-1", "", fiber.StatusBadRequest},
		{"non-integer index", "/v1/ingest/extracted/party/first/approve?job_id=job-1", "", fiber.StatusBadRequest},
		{"index out of range", "/v1/ingest/extracted/party/99/approve?job_id=job-1", "", fiber.StatusNotFound},
		{"unknown job", "/v1/ingest/extracted/party/0/approve?job_id=missing", "", fiber.StatusNotFound},
		{"manual without name", "/v1/ingest/extracted/party/0/approve", `{"payload":{"abbrev":"AL"}}`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postApprove(t, app, tc.path, tc.body)
			assert.Equal(t, tc.code, resp.StatusCode)
			assert.Equal(t, false, body["success"])
		})
	}
}
