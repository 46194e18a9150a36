package public

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicscan/internal/core/registry"
)

func strptr(s string) *string { return &s }

func seedParty(t *testing.T, store *registry.MemoryStore, rec registry.PartyRecord) {
	t.Helper()
	line, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), registry.KindParty, line))
}

func seedCandidate(t *testing.T, store *registry.MemoryStore, rec registry.CandidateRecord) {
	t.Helper()
	line, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), registry.KindCandidate, line))
}

func TestListPartiesPagination(t *testing.T) {
	store := registry.NewMemoryStore()
	for _, name := range []string{"Awami League", "Jatiya Party", "Liberal Front"} {
		seedParty(t, store, registry.PartyRecord{Name: name})
	}
	svc := NewService(store)

	page, err := svc.ListParties(context.Background(), PartyQuery{Page: 2, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.Size)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Jatiya Party", page.Items[0].Name)
}

func TestListPartiesSearchCaseInsensitive(t *testing.T) {
	store := registry.NewMemoryStore()
	seedParty(t, store, registry.PartyRecord{Name: "Awami League", Abbrev: strptr("AL")})
	seedParty(t, store, registry.PartyRecord{Name: "Jatiya Party"})
	svc := NewService(store)

	page, err := svc.ListParties(context.Background(), PartyQuery{Search: "LEAGUE"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Awami League", page.Items[0].Name)
	require.NotNil(t, page.Items[0].Abbrev)
	assert.Equal(t, "AL", *page.Items[0].Abbrev)
}

func TestListCandidatesFilters(t *testing.T) {
	store := registry.NewMemoryStore()
	seedCandidate(t, store, registry.CandidateRecord{FullName: "Sheikh Mujibur Rahman", PartyGuess: strptr("Awami League"), ConstituencyGuess: strptr("Dhaka-10")})
	seedCandidate(t, store, registry.CandidateRecord{FullName: "Khaleda Zia", PartyGuess: strptr("BNP"), Bio: strptr("served two terms")})
	seedCandidate(t, store, registry.CandidateRecord{FullName: "Rowshan Ershad"})
	svc := NewService(store)

	page, err := svc.ListCandidates(context.Background(), CandidateQuery{Party: "awami"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sheikh Mujibur Rahman", page.Items[0].FullName)

	page, err = svc.ListCandidates(context.Background(), CandidateQuery{Constituency: "dhaka"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	// q matches on name or bio
	page, err = svc.ListCandidates(context.Background(), CandidateQuery{Q: "two terms"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Khaleda Zia", page.Items[0].FullName)

	page, err = svc.ListCandidates(context.Background(), CandidateQuery{Q: "ershad"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Rowshan Ershad", page.Items[0].FullName)
}

func TestListCandidatesCombinedFiltersIntersect(t *testing.T) {
	store := registry.NewMemoryStore()
	seedCandidate(t, store, registry.CandidateRecord{FullName: "Sheikh Mujibur Rahman", PartyGuess: strptr("Awami League"), ConstituencyGuess: strptr("Dhaka-10")})
	seedCandidate(t, store, registry.CandidateRecord{FullName: "Tofail Ahmed", PartyGuess: strptr("Awami League"), ConstituencyGuess: strptr("Bhola-1")})
	svc := NewService(store)

	page, err := svc.ListCandidates(context.Background(), CandidateQuery{Party: "awami", Constituency: "bhola"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Tofail Ahmed", page.Items[0].FullName)
}

func TestMalformedRecordIsSkipped(t *testing.T) {
	store := registry.NewMemoryStore()
	require.NoError(t, store.Append(context.Background(), registry.KindParty, json.RawMessage(`{"name":`)))
	seedParty(t, store, registry.PartyRecord{Name: "Awami League"})
	svc := NewService(store)

	page, err := svc.ListParties(context.Background(), PartyQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Awami League", page.Items[0].Name)
}

func TestPaginationDefaultsAndCaps(t *testing.T) {
	store := registry.NewMemoryStore()
	for i := 0; i < 30; i++ {
		seedParty(t, store, registry.PartyRecord{Name: fmt.Sprintf("Party %02d", i)})
	}
	svc := NewService(store)

	page, err := svc.ListParties(context.Background(), PartyQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Size)
	assert.Len(t, page.Items, 20)
	assert.Equal(t, 30, page.Total)

	page, err = svc.ListParties(context.Background(), PartyQuery{Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, 200, page.Size)
	assert.Len(t, page.Items, 30)

	// a page past the end is empty but keeps the total
	page, err = svc.ListParties(context.Background(), PartyQuery{Page: 5, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 30, page.Total)
}

func TestListPartiesEmptyRegistry(t *testing.T) {
	svc := NewService(registry.NewMemoryStore())

	page, err := svc.ListParties(context.Background(), PartyQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}
