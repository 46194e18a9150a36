package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for raw, want := range map[string]Kind{
		"party":     KindParty,
		"Party":     KindParty,
		"CANDIDATE": KindCandidate,
		"candidate": KindCandidate,
	} {
		kind, err := ParseKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, kind)
	}

	for _, raw := range []string{"", "parties", "politician", "party "} {
		_, err := ParseKind(raw)
		assert.ErrorIs(t, err, ErrInvalidKind, "accepted %q", raw)
	}
}

func TestMemoryStoreAppendOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, KindParty, json.RawMessage(`{"name":"A"}`)))
	require.NoError(t, store.Append(ctx, KindParty, json.RawMessage(`{"name":"B"}`)))
	require.NoError(t, store.Append(ctx, KindCandidate, json.RawMessage(`{"full_name":"C"}`)))

	parties, err := store.List(ctx, KindParty)
	require.NoError(t, err)
	require.Len(t, parties, 2)
	assert.JSONEq(t, `{"name":"A"}`, string(parties[0]))
	assert.JSONEq(t, `{"name":"B"}`, string(parties[1]))

	candidates, err := store.List(ctx, KindCandidate)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestMemoryStoreAppendOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, appended, err := store.AppendOnce(ctx, KindParty, "job:party:0", json.RawMessage(`{"name":"A"}`))
	require.NoError(t, err)
	assert.True(t, appended)
	assert.JSONEq(t, `{"name":"A"}`, string(first))

	// repeat with a different line returns the original and skips the append
	second, appended, err := store.AppendOnce(ctx, KindParty, "job:party:0", json.RawMessage(`{"name":"Z"}`))
	require.NoError(t, err)
	assert.False(t, appended)
	assert.JSONEq(t, `{"name":"A"}`, string(second))

	lines, err := store.List(ctx, KindParty)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
