package store

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adetumilara/stellar-insights/internal/model"
)

func anchorCollection(max int) *Collection[model.AnchorMetrics] {
	return NewCollection(max, func(a model.AnchorMetrics) string { return a.AnchorID })
}

func anchorPatch(id string, fields string) json.RawMessage {
	if fields == "" {
		return json.RawMessage(fmt.Sprintf(`{"anchor_id":%q}`, id))
	}
	return json.RawMessage(fmt.Sprintf(`{"anchor_id":%q,%s}`, id, fields))
}

func TestApplyInsertsNewestFirst(t *testing.T) {
	c := anchorCollection(5)

	require.NoError(t, c.Apply(anchorPatch("a1", `"name":"First"`)))
	require.NoError(t, c.Apply(anchorPatch("a2", `"name":"Second"`)))

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a2", snap[0].AnchorID)
	assert.Equal(t, "a1", snap[1].AnchorID)
}

func TestApplyUpdateKeepsPosition(t *testing.T) {
	c := anchorCollection(5)

	// new, new, update: x must keep its original position, not move to front
	require.NoError(t, c.Apply(anchorPatch("x", `"name":"X","status":"green"`)))
	require.NoError(t, c.Apply(anchorPatch("y", `"name":"Y"`)))
	require.NoError(t, c.Apply(anchorPatch("x", `"status":"red"`)))

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "y", snap[0].AnchorID)
	assert.Equal(t, "x", snap[1].AnchorID)
	assert.Equal(t, "red", snap[1].Status)
}

func TestApplyMergesFieldLevel(t *testing.T) {
	c := anchorCollection(5)

	require.NoError(t, c.Apply(anchorPatch("a1", `"name":"Vibrant","reliability_score":97.5,"status":"green"`)))
	// Patch omits name and score: both must survive the merge.
	require.NoError(t, c.Apply(anchorPatch("a1", `"status":"yellow"`)))

	got, ok := c.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "Vibrant", got.Name)
	assert.Equal(t, 97.5, got.ReliabilityScore)
	assert.Equal(t, "yellow", got.Status)
}

func TestApplyIdenticalPatchIsIdempotent(t *testing.T) {
	c := anchorCollection(5)
	patch := anchorPatch("a1", `"name":"Vibrant","status":"green"`)

	require.NoError(t, c.Apply(patch))
	first := c.Snapshot()
	require.NoError(t, c.Apply(patch))
	second := c.Snapshot()

	assert.Equal(t, first, second)
}

func TestApplyEvictsOldestPastCap(t *testing.T) {
	c := anchorCollection(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, c.Apply(anchorPatch(fmt.Sprintf("a%d", i), "")))
	}

	snap := c.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a5", snap[0].AnchorID)
	assert.Equal(t, "a4", snap[1].AnchorID)
	assert.Equal(t, "a3", snap[2].AnchorID)
	_, ok := c.Get("a1")
	assert.False(t, ok)
}

func TestApplyDeterministicOverSequences(t *testing.T) {
	updates := []json.RawMessage{
		anchorPatch("a", `"name":"A","status":"green"`),
		anchorPatch("b", `"name":"B","status":"green"`),
		anchorPatch("a", `"status":"yellow"`),
		anchorPatch("c", `"name":"C"`),
		anchorPatch("b", `"reliability_score":12.5`),
	}

	c1 := anchorCollection(5)
	c2 := anchorCollection(5)
	for _, u := range updates {
		require.NoError(t, c1.Apply(u))
		require.NoError(t, c2.Apply(u))
	}

	assert.Equal(t, c1.Snapshot(), c2.Snapshot())
}

func TestApplyRejectsMissingKey(t *testing.T) {
	c := anchorCollection(5)

	err := c.Apply(json.RawMessage(`{"name":"no id"}`))
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Zero(t, c.Len())
}

func TestApplyRejectsMalformedPatch(t *testing.T) {
	c := anchorCollection(5)

	err := c.Apply(json.RawMessage(`{"anchor_id":`))
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := anchorCollection(5)
	require.NoError(t, c.Apply(anchorPatch("a1", `"name":"Vibrant"`)))

	snap := c.Snapshot()
	snap[0].Name = "mutated"

	got, ok := c.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "Vibrant", got.Name)
}

func TestNewCollectionFallsBackToDefaultCap(t *testing.T) {
	c := anchorCollection(0)

	for i := 0; i < DefaultCap+2; i++ {
		require.NoError(t, c.Apply(anchorPatch(fmt.Sprintf("a%d", i), "")))
	}
	assert.Equal(t, DefaultCap, c.Len())
}
