package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct{ *Memory }

var errBroken = errors.New("disk full")

func (brokenKV) Set(context.Context, string, []byte) error { return errBroken }

type doc struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestScopeRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewScope(kv, "u1", nil)

	var got doc
	ok, err := s.Load(ctx, "vocabulary", &got)
	require.NoError(t, err)
	assert.False(t, ok, "missing document means use defaults")

	require.NoError(t, s.Save(ctx, "vocabulary", doc{Count: 3, Tags: []string{"a"}}))

	ok, err = s.Load(ctx, "vocabulary", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc{Count: 3, Tags: []string{"a"}}, got)

	_, present, _ := kv.Get(ctx, "vocabulary-u1")
	assert.True(t, present, "documents are namespaced per user")

	require.NoError(t, s.Remove(ctx, "vocabulary"))
	ok, err = s.Load(ctx, "vocabulary", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopeIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	alice := NewScope(kv, "alice", nil)
	bob := NewScope(kv, "bob", nil)

	require.NoError(t, alice.Save(ctx, "history", doc{Count: 1}))

	var got doc
	ok, err := bob.Load(ctx, "history", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopeIgnoresIncompatibleDocuments(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
	}{
		{"newer major", `{"schema":"v2.0.0","data":{"count":9}}`},
		{"invalid version", `{"schema":"one","data":{"count":9}}`},
		{"not json", `count=9`},
		{"wrong shape", `{"schema":"v1.0.0","data":"nine"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemory()
			require.NoError(t, kv.Set(ctx, "performance-u1", []byte(tt.raw)))

			var got doc
			ok, err := NewScope(kv, "u1", nil).Load(ctx, "performance", &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestScopeAcceptsMinorVersions(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, "performance-u1", []byte(`{"schema":"v1.4.2","data":{"count":9}}`)))

	var got doc
	ok, err := NewScope(kv, "u1", nil).Load(ctx, "performance", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9, got.Count)
}

func TestScopeSaveFailureIsPersistError(t *testing.T) {
	s := NewScope(brokenKV{NewMemory()}, "u1", nil)

	err := s.Save(context.Background(), "challenge", doc{Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, errBroken)

	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "challenge-u1", pe.Key)
	assert.Equal(t, "save", pe.Op)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, m.Len())
}
