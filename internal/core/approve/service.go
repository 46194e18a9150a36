// Package approve promotes extracted proposals into the approved registry.
// A moderator picks a proposal by kind and index from a successful job,
// optionally overrides fields, and the merged record is appended; a manual
// path accepts a complete record with no source job.
package approve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"civicscan/internal/core/ingest"
	"civicscan/internal/core/registry"
	"civicscan/internal/logger"
)

var (
	// ErrInvalidState marks approval against a job without a successful result.
	ErrInvalidState = errors.New("job has no successful result to approve from")
	// ErrIndexOutOfRange marks an index outside the job's extracted list.
	ErrIndexOutOfRange = errors.New("index not found in extracted entities")
	// ErrMissingName marks a manual record without its required name field.
	ErrMissingName = errors.New("record name is required")
)

// JobSource provides read access to ingestion jobs.
type JobSource interface {
	Get(ctx context.Context, id string) (*ingest.Job, error)
}

// PartyPatch is a partial update over a party proposal; set fields win.
type PartyPatch struct {
	Name        *string `json:"name"`
	Abbrev      *string `json:"abbrev"`
	LogoURL     *string `json:"logo_url"`
	Description *string `json:"description"`
}

// CandidatePatch is a partial update over a candidate proposal.
type CandidatePatch struct {
	FullName          *string `json:"full_name"`
	PartyGuess        *string `json:"party_guess"`
	ConstituencyGuess *string `json:"constituency_guess"`
	PhotoURL          *string `json:"photo_url"`
	Bio               *string `json:"bio"`
}

type Service struct {
	log   *logger.Logger
	jobs  JobSource
	store registry.Store

	// approvals against the same job serialize so index semantics never race
	mu       sync.Mutex
	jobLocks map[string]*sync.Mutex
}

func NewService(jobs JobSource, store registry.Store) *Service {
	return &Service{
		log:      logger.New("ApproveService"),
		jobs:     jobs,
		store:    store,
		jobLocks: map[string]*sync.Mutex{},
	}
}

// Approve finalizes one record. With a jobID the proposal at index is merged
// with the payload overrides; without one the payload alone is the record.
// Re-approving the same (job, kind, index) returns the originally stored
// record instead of appending a duplicate.
func (s *Service) Approve(ctx context.Context, rawKind string, index int, payload json.RawMessage, jobID string) (json.RawMessage, error) {
	kind, err := registry.ParseKind(rawKind)
	if err != nil {
		return nil, err
	}

	if jobID == "" {
		return s.approveManual(ctx, kind, payload)
	}

	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != ingest.StatusSuccess || job.Result == nil {
		return nil, ErrInvalidState
	}

	line, err := mergeProposal(kind, job.Result.Entities, index, payload)
	if err != nil {
		return nil, err
	}

	dedupKey := fmt.Sprintf("%s:%s:%d", jobID, kind, index)
	stored, appended, err := s.store.AppendOnce(ctx, kind, dedupKey, line)
	if err != nil {
		return nil, err
	}
	if !appended {
		s.log.Info().Str("job_id", jobID).Str("kind", string(kind)).Int("index", index).Msg("repeat approval, returning stored record")
	}
	return stored, nil
}

func (s *Service) approveManual(ctx context.Context, kind registry.Kind, payload json.RawMessage) (json.RawMessage, error) {
	line, err := manualRecord(kind, payload)
	if err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, kind, line); err != nil {
		return nil, err
	}
	return line, nil
}

func mergeProposal(kind registry.Kind, entities ingest.Entities, index int, payload json.RawMessage) (json.RawMessage, error) {
	switch kind {
	case registry.KindParty:
		if index < 0 || index >= len(entities.Parties) {
			return nil, ErrIndexOutOfRange
		}
		base := entities.Parties[index]
		rec := registry.PartyRecord{
			Name:        base.Name,
			Abbrev:      base.Abbrev,
			LogoURL:     base.LogoURL,
			Description: base.Description,
		}
		var patch PartyPatch
		if err := unmarshalPatch(payload, &patch); err != nil {
			return nil, err
		}
		applyPartyPatch(&rec, patch)
		return json.Marshal(rec)
	default:
		if index < 0 || index >= len(entities.Candidates) {
			return nil, ErrIndexOutOfRange
		}
		base := entities.Candidates[index]
		rec := registry.CandidateRecord{
			FullName:          base.FullName,
			PartyGuess:        base.PartyGuess,
			ConstituencyGuess: base.ConstituencyGuess,
			PhotoURL:          base.PhotoURL,
			Bio:               base.Bio,
		}
		var patch CandidatePatch
		if err := unmarshalPatch(payload, &patch); err != nil {
			return nil, err
		}
		applyCandidatePatch(&rec, patch)
		return json.Marshal(rec)
	}
}

func manualRecord(kind registry.Kind, payload json.RawMessage) (json.RawMessage, error) {
	switch kind {
	case registry.KindParty:
		var patch PartyPatch
		if err := unmarshalPatch(payload, &patch); err != nil {
			return nil, err
		}
		if patch.Name == nil || *patch.Name == "" {
			return nil, fmt.Errorf("%w: name", ErrMissingName)
		}
		rec := registry.PartyRecord{Name: *patch.Name, Abbrev: patch.Abbrev, LogoURL: patch.LogoURL, Description: patch.Description}
		return json.Marshal(rec)
	default:
		var patch CandidatePatch
		if err := unmarshalPatch(payload, &patch); err != nil {
			return nil, err
		}
		if patch.FullName == nil || *patch.FullName == "" {
			return nil, fmt.Errorf("%w: full_name", ErrMissingName)
		}
		rec := registry.CandidateRecord{
			FullName:          *patch.FullName,
			PartyGuess:        patch.PartyGuess,
			ConstituencyGuess: patch.ConstituencyGuess,
			PhotoURL:          patch.PhotoURL,
			Bio:               patch.Bio,
		}
		return json.Marshal(rec)
	}
}

func unmarshalPatch(payload json.RawMessage, dest interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, dest)
}

func applyPartyPatch(rec *registry.PartyRecord, p PartyPatch) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Abbrev != nil {
		rec.Abbrev = p.Abbrev
	}
	if p.LogoURL != nil {
		rec.LogoURL = p.LogoURL
	}
	if p.Description != nil {
		rec.Description = p.Description
	}
}

func applyCandidatePatch(rec *registry.CandidateRecord, p CandidatePatch) {
	if p.FullName != nil {
		rec.FullName = *p.FullName
	}
	if p.PartyGuess != nil {
		rec.PartyGuess = p.PartyGuess
	}
	if p.ConstituencyGuess != nil {
		rec.ConstituencyGuess = p.ConstituencyGuess
	}
	if p.PhotoURL != nil {
		rec.PhotoURL = p.PhotoURL
	}
	if p.Bio != nil {
		rec.Bio = p.Bio
	}
}

func (s *Service) lockJob(jobID string) func() {
	s.mu.Lock()
	l, ok := s.jobLocks[jobID]
	if !ok {
		l = &sync.Mutex{}
		s.jobLocks[jobID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}
