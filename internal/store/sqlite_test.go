package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondmind/internal/note"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQueryAll(t *testing.T) {
	s := newTestStore(t)

	added, err := s.Insert("alice", note.Note{Body: "B", Tags: []string{"#a", "#b"}, Due: "2025-01-01"})
	require.NoError(t, err)
	assert.True(t, added)

	recs, err := s.All("alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Tags come back exactly as stored, order preserved.
	assert.Equal(t, "B", recs[0].Body)
	assert.Equal(t, []string{"#a", "#b"}, recs[0].Tags)
	assert.Equal(t, "2025-01-01", recs[0].Due)
	assert.NotEmpty(t, recs[0].ID)
}

func TestInsertSkipsExactDuplicate(t *testing.T) {
	s := newTestStore(t)
	n := note.Note{Body: "Duplicate note here", Tags: []string{"#duplicate"}, Due: "2025-11-01"}

	first, err := s.Insert("alice", n)
	require.NoError(t, err)
	second, err := s.Insert("alice", n)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	recs, err := s.All("alice")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestInsertNullDueMatchesOnlyNull(t *testing.T) {
	s := newTestStore(t)

	withDue := note.Note{Body: "same body", Tags: []string{"#t"}, Due: "2025-11-01"}
	noDue := note.Note{Body: "same body", Tags: []string{"#t"}}

	added, err := s.Insert("alice", withDue)
	require.NoError(t, err)
	assert.True(t, added)

	// Absent due date is not a duplicate of a dated note.
	added, err = s.Insert("alice", noDue)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Insert("alice", noDue)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestNotesAreScopedByUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "alice's note"})
	require.NoError(t, err)
	_, err = s.Insert("bob", note.Note{Body: "bob's note"})
	require.NoError(t, err)

	// Same content under another user is not a duplicate.
	added, err := s.Insert("bob", note.Note{Body: "alice's note"})
	require.NoError(t, err)
	assert.True(t, added)

	recs, err := s.All("alice")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSearchKeywordCaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "Finish Project report"})
	require.NoError(t, err)
	_, err = s.Insert("alice", note.Note{Body: "Walk the dog"})
	require.NoError(t, err)

	recs, err := s.SearchKeyword("alice", "project")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Finish Project report", recs[0].Body)

	recs, err = s.SearchKeyword("alice", "unicorns")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFilterTag(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "Note 1", Tags: []string{"#test", "#urgent"}})
	require.NoError(t, err)
	_, err = s.Insert("alice", note.Note{Body: "Note 2", Tags: []string{"#work"}})
	require.NoError(t, err)
	_, err = s.Insert("alice", note.Note{Body: "Note 3"})
	require.NoError(t, err)

	recs, err := s.FilterTag("alice", "test")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Note 1", recs[0].Body)

	recs, err = s.FilterTag("alice", "unicorn")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExistsAndDelete(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "to delete"})
	require.NoError(t, err)
	recs, err := s.All("alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	id := recs[0].ID

	ok, err := s.Exists("alice", id)
	require.NoError(t, err)
	assert.True(t, ok)

	// Another user does not see the note.
	ok, err = s.Exists("bob", id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete("alice", id))

	ok, err = s.Exists("alice", id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "old", Tags: []string{"#old"}, Due: "2025-08-01"})
	require.NoError(t, err)
	recs, err := s.All("alice")
	require.NoError(t, err)
	id := recs[0].ID

	next := note.Note{Body: "new", Tags: []string{"#updated", "#tags"}, Due: "2025-09-01"}
	require.NoError(t, s.Update("alice", id, next))

	rec, err := s.Get("alice", id)
	require.NoError(t, err)
	assert.Equal(t, "new", rec.Body)
	assert.Equal(t, []string{"#updated", "#tags"}, rec.Tags)
	assert.Equal(t, "2025-09-01", rec.Due)
}

func TestUpdateMissingNote(t *testing.T) {
	s := newTestStore(t)

	err := s.Update("alice", "no-such-id", note.Note{Body: "x"})
	assert.Error(t, err)
}

func TestResolveID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert("alice", note.Note{Body: "only note"})
	require.NoError(t, err)
	recs, err := s.All("alice")
	require.NoError(t, err)
	id := recs[0].ID

	resolved, err := s.ResolveID("alice", id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, resolved)

	_, err = s.ResolveID("alice", "zzzzzzzz")
	assert.Error(t, err)

	_, err = s.ResolveID("bob", id[:8])
	assert.Error(t, err)
}

func TestRoundTripThroughStore(t *testing.T) {
	s := newTestStore(t)
	orig := note.Note{Body: "B", Tags: []string{"#a", "#b"}, Due: "2025-01-01"}

	_, err := s.Insert("alice", orig)
	require.NoError(t, err)

	recs, err := s.All("alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, orig, recs[0].Note)
}
