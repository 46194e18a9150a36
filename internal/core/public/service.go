// Package public serves the moderator-approved subset of entities. It reads
// only from the approval registry: nothing extracted reaches this surface
// without an explicit approval.
package public

import (
	"context"
	"encoding/json"
	"strings"

	"civicscan/internal/core/registry"
	"civicscan/internal/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// PartyItem is the public view of an approved party.
type PartyItem struct {
	Name        string  `json:"name"`
	Abbrev      *string `json:"abbrev"`
	LogoURL     *string `json:"logoUrl"`
	Description *string `json:"description"`
}

// CandidateItem is the public view of an approved candidate.
type CandidateItem struct {
	FullName     string  `json:"fullName"`
	PartyName    *string `json:"partyName"`
	Constituency *string `json:"constituencyName"`
	PhotoURL     *string `json:"photoUrl"`
	Bio          *string `json:"bio"`
}

// Paged is a 1-based page of filtered items; Total counts matches before
// pagination.
type Paged[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// PartyQuery filters the approved party listing.
type PartyQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
	Size   int    `query:"size"`
}

// CandidateQuery filters the approved candidate listing.
type CandidateQuery struct {
	Party        string `query:"party"`
	Constituency string `query:"constituency"`
	Q            string `query:"q"`
	Page         int    `query:"page"`
	Size         int    `query:"size"`
}

type Service struct {
	log   *logger.Logger
	store registry.Store
}

func NewService(store registry.Store) *Service {
	return &Service{log: logger.New("PublicService"), store: store}
}

func (s *Service) ListParties(ctx context.Context, q PartyQuery) (Paged[PartyItem], error) {
	lines, err := s.store.List(ctx, registry.KindParty)
	if err != nil {
		return Paged[PartyItem]{}, err
	}

	items := make([]PartyItem, 0, len(lines))
	for _, line := range lines {
		var rec registry.PartyRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.log.LogWarnf("skipping malformed party record: %v", err)
			continue
		}
		if q.Search != "" && !containsFold(rec.Name, q.Search) {
			continue
		}
		items = append(items, PartyItem{Name: rec.Name, Abbrev: rec.Abbrev, LogoURL: rec.LogoURL, Description: rec.Description})
	}

	return paginate(items, q.Page, q.Size), nil
}

func (s *Service) ListCandidates(ctx context.Context, q CandidateQuery) (Paged[CandidateItem], error) {
	lines, err := s.store.List(ctx, registry.KindCandidate)
	if err != nil {
		return Paged[CandidateItem]{}, err
	}

	items := make([]CandidateItem, 0, len(lines))
	for _, line := range lines {
		var rec registry.CandidateRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.log.LogWarnf("skipping malformed candidate record: %v", err)
			continue
		}
		if q.Party != "" && !containsFold(deref(rec.PartyGuess), q.Party) {
			continue
		}
		if q.Constituency != "" && !containsFold(deref(rec.ConstituencyGuess), q.Constituency) {
			continue
		}
		if q.Q != "" && !containsFold(rec.FullName, q.Q) && !containsFold(deref(rec.Bio), q.Q) {
			continue
		}
		items = append(items, CandidateItem{
			FullName:     rec.FullName,
			PartyName:    rec.PartyGuess,
			Constituency: rec.ConstituencyGuess,
			PhotoURL:     rec.PhotoURL,
			Bio:          rec.Bio,
		})
	}

	return paginate(items, q.Page, q.Size), nil
}

func paginate[T any](items []T, page, size int) Paged[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Paged[T]{Items: items[start:end], Page: page, Size: size, Total: total}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
