// Package ingest owns the lifecycle of one ingestion attempt: a Job is
// created queued, rendered and extracted in the background, and ends in
// exactly one terminal state carrying either a result or an error message.
package ingest

import (
	"time"

	"civicscan/internal/core/extract"
)

// Status is the job lifecycle state: queued → running → {success | error}.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

func (s Status) Valid() bool {
	return s == StatusQueued || s == StatusRunning || s == StatusSuccess || s == StatusError
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusError }

// Entities groups the proposals extracted from one rendered page.
type Entities struct {
	Parties    []extract.Party     `json:"parties"`
	Candidates []extract.Candidate `json:"candidates"`
}

// JobResult is attached once a job succeeds. The rendered document itself is
// kept as an artifact on disk and referenced, not embedded.
type JobResult struct {
	RenderedHTMLReference string   `json:"rendered_html_reference"`
	Entities              Entities `json:"entities"`
	RawTextSample         string   `json:"raw_text_sample"`
}

// Job is one ingestion attempt for a single URL.
type Job struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Result    *JobResult `json:"result"`
	Error     *string    `json:"error"`
}

// Summary is the listing view of a job, without result payload.
type Summary struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *Job) Summary() Summary {
	return Summary{ID: j.ID, URL: j.URL, Status: j.Status, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt}
}
