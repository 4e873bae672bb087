package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minicheck/internal/target"
	"github.com/roach88/minicheck/internal/testutil"
	"github.com/roach88/minicheck/internal/verifier"
)

// ============================================================================
// NewVerdict
// ============================================================================

func TestNewVerdict_WellFormed(t *testing.T) {
	v := NewVerdict("abc", target.Wasm32, nil)
	assert.True(t, v.WellFormed)
	assert.Equal(t, "wasm32", v.Target)
	assert.EqualValues(t, 4, v.PtrSize)
	assert.Empty(t, v.Kind)
	assert.NoError(t, v.Err())
}

func TestNewVerdict_IllFormed(t *testing.T) {
	ill := &verifier.IllFormedError{
		Kind:    verifier.KindStatement,
		Message: "Statement::StorageDead: local already dead",
		Path:    []string{"function main", "block bb0", "statement 1"},
	}
	v := NewVerdict("abc", target.X86_64, fmt.Errorf("checking: %w", ill))

	assert.False(t, v.WellFormed)
	assert.Equal(t, verifier.KindStatement, v.Kind)
	assert.Equal(t, ill.Message, v.Message)
	assert.Equal(t, ill.Path, v.Path)
	assert.Equal(t, ill.Error(), v.Err().Error())
}

func TestNewVerdict_OtherError(t *testing.T) {
	v := NewVerdict("abc", target.X86_64, fmt.Errorf("boom"))
	assert.False(t, v.WellFormed)
	assert.Empty(t, v.Kind)
	assert.Equal(t, "boom", v.Message)
}

// ============================================================================
// Record / Lookup / List
// ============================================================================

func TestRecordVerdict_AssignsRunIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.RecordVerdict(ctx, NewVerdict("h1", target.X86_64, nil))
	require.NoError(t, err)
	second, err := s.RecordVerdict(ctx, NewVerdict("h2", target.X86_64, nil))
	require.NoError(t, err)

	assert.Equal(t, "run-0001", first.RunID)
	assert.Equal(t, "run-0002", second.RunID)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestRecordVerdict_KeepsPresetRunID(t *testing.T) {
	s := createTestStore(t)

	v := NewVerdict("h1", target.X86_64, nil)
	v.RunID = "custom"
	got, err := s.RecordVerdict(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "custom", got.RunID)
}

func TestLookupVerdict_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ill := &verifier.IllFormedError{
		Kind:    verifier.KindFunctionLiveness,
		Message: "Function: two different ways to reach a block with different live locals",
		Path:    []string{"function main", "block bb2"},
	}
	v := NewVerdict("h1", target.X86_64, ill)
	v.Source = "prog.yaml"
	recorded, err := s.RecordVerdict(ctx, v)
	require.NoError(t, err)

	got, ok, err := s.LookupVerdict(ctx, "h1", 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, recorded, got)
	assert.True(t, verifier.IsKind(got.Err(), verifier.KindFunctionLiveness))
}

func TestLookupVerdict_Miss(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.RecordVerdict(ctx, NewVerdict("h1", target.X86_64, nil))
	require.NoError(t, err)

	_, ok, err := s.LookupVerdict(ctx, "h1", 4)
	require.NoError(t, err)
	assert.False(t, ok, "a verdict at another pointer size must not be served")

	_, ok, err = s.LookupVerdict(ctx, "other", 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupVerdict_SharedAcrossTargetsOfSameWidth(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ptr32, err := target.New(4)
	require.NoError(t, err)
	_, err = s.RecordVerdict(ctx, NewVerdict("h1", ptr32, nil))
	require.NoError(t, err)

	got, ok, err := s.LookupVerdict(ctx, "h1", target.Wasm32.PtrSize())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ptr32", got.Target)
}

func TestLookupVerdict_ReturnsLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.RecordVerdict(ctx, NewVerdict("h1", target.X86_64, fmt.Errorf("old")))
	require.NoError(t, err)
	latest, err := s.RecordVerdict(ctx, NewVerdict("h1", target.X86_64, nil))
	require.NoError(t, err)

	got, ok, err := s.LookupVerdict(ctx, "h1", 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, latest.RunID, got.RunID)
	assert.True(t, got.WellFormed)
}

func TestListVerdicts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListVerdicts(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, h := range []string{"h1", "h2", "h1"} {
		_, err := s.RecordVerdict(ctx, NewVerdict(h, target.X86_64, nil))
		require.NoError(t, err)
	}

	all, err := s.ListVerdicts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"run-0001", "run-0002", "run-0003"},
		[]string{all[0].RunID, all[1].RunID, all[2].RunID})

	h1, err := s.ListVerdicts(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, h1, 2)
	assert.Equal(t, "run-0003", h1[1].RunID)
}

func TestRecordVerdict_Deterministic(t *testing.T) {
	ids := testutil.NewSequentialRunIDs()
	record := func() []Verdict {
		ids.Reset()
		s, err := Open(t.TempDir()+"/v.db", WithIDGenerator(ids))
		require.NoError(t, err)
		defer s.Close()

		ctx := context.Background()
		_, err = s.RecordVerdict(ctx, NewVerdict("h1", target.X86_64, nil))
		require.NoError(t, err)
		_, err = s.RecordVerdict(ctx, NewVerdict("h1", target.Wasm32, &verifier.IllFormedError{Kind: verifier.KindType, Message: "Type: size not valid"}))
		require.NoError(t, err)

		all, err := s.ListVerdicts(ctx, "")
		require.NoError(t, err)
		return all
	}
	assert.Equal(t, record(), record())
}
