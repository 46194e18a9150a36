// Package registry is the append-only log of moderator-approved entities.
// It exclusively owns one durable sequence per kind; records are written
// once and never mutated in place; corrections are new appends.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Kind selects which approved sequence a record belongs to.
type Kind string

const (
	KindParty     Kind = "party"
	KindCandidate Kind = "candidate"
)

// ErrInvalidKind is returned for anything other than party/candidate.
var ErrInvalidKind = errors.New("kind must be 'party' or 'candidate'")

// ParseKind normalizes and validates a caller-supplied kind.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(raw)) {
	case KindParty:
		return KindParty, nil
	case KindCandidate:
		return KindCandidate, nil
	default:
		return "", ErrInvalidKind
	}
}

// PartyRecord is a finalized party entity. Its JSON shape matches the
// extracted proposal exactly, so an unedited approval stores the proposal
// verbatim.
type PartyRecord struct {
	Name        string  `json:"name"`
	Abbrev      *string `json:"abbrev"`
	LogoURL     *string `json:"logo_url"`
	Description *string `json:"description"`
}

// CandidateRecord is a finalized candidate entity.
type CandidateRecord struct {
	FullName          string  `json:"full_name"`
	PartyGuess        *string `json:"party_guess"`
	ConstituencyGuess *string `json:"constituency_guess"`
	PhotoURL          *string `json:"photo_url"`
	Bio               *string `json:"bio"`
}

// Store appends and reads per-kind sequences of self-describing JSON
// records. Append is atomic per call: concurrent approvals never observe a
// partial record, and List is read-your-writes.
type Store interface {
	// Append adds one record line under kind.
	Append(ctx context.Context, kind Kind, line json.RawMessage) error
	// AppendOnce appends line only if dedupKey has not been used before;
	// it returns the stored line (the existing one on a repeat) and
	// whether an append happened.
	AppendOnce(ctx context.Context, kind Kind, dedupKey string, line json.RawMessage) (json.RawMessage, bool, error)
	// List returns all record lines for kind in append order.
	List(ctx context.Context, kind Kind) ([]json.RawMessage, error)
}
