package logstore

import (
	"reflect"
	"testing"

	raft "github.com/CynthiaZ92/raft"
)

func entry(term raft.Term, cmd string) raft.Entry {
	return raft.Entry{Term: term, Command: raft.Command(cmd)}
}

func TestEmptyLog(t *testing.T) {
	s := New()
	if s.LastIndex() != 0 {
		t.Fatalf("LastIndex() = %d", s.LastIndex())
	}
	if s.TermAt(0) != 0 {
		t.Fatalf("TermAt(0) = %d", s.TermAt(0))
	}
	if s.HasEntryAt(1) {
		t.Fatal("HasEntryAt(1) on empty log")
	}
	if len(s.EntriesFrom(0)) != 0 {
		t.Fatal("EntriesFrom(0) on empty log should be empty")
	}
}

func TestAppendNew(t *testing.T) {
	s := New()
	i1 := s.AppendNew(entry(1, "a"))
	i2 := s.AppendNew(entry(1, "b"))
	if i1 != 1 || i2 != 2 {
		t.Fatalf("indexes = %d, %d", i1, i2)
	}
	if s.TermAt(2) != 1 {
		t.Fatalf("TermAt(2) = %d", s.TermAt(2))
	}
	got := s.EntryAt(1)
	if !reflect.DeepEqual(got, entry(1, "a")) {
		t.Fatalf("EntryAt(1) = %v", got)
	}
}

func TestAppend_NoConflictIsIdempotent(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))
	s.AppendNew(entry(1, "b"))

	// Replaying the same suffix must not alter it.
	last := s.Append(0, []raft.Entry{entry(1, "a"), entry(1, "b")})
	if last != 2 {
		t.Fatalf("Append returned %d, want 2", last)
	}
	if !reflect.DeepEqual(s.EntryAt(1), entry(1, "a")) || !reflect.DeepEqual(s.EntryAt(2), entry(1, "b")) {
		t.Fatal("idempotent replay mutated the log")
	}
}

func TestAppend_ConflictTruncates(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))
	s.AppendNew(entry(1, "b"))
	s.AppendNew(entry(1, "c"))

	// A new leader's entry at index 2 with a different term must
	// truncate the old index-2 and index-3 entries.
	last := s.Append(1, []raft.Entry{entry(2, "x")})
	if last != 2 {
		t.Fatalf("Append returned %d, want 2", last)
	}
	if !reflect.DeepEqual(s.EntryAt(2), entry(2, "x")) {
		t.Fatalf("EntryAt(2) = %v", s.EntryAt(2))
	}
}

func TestAppend_ExtendsPastExistingTail(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))

	last := s.Append(1, []raft.Entry{entry(1, "b"), entry(1, "c")})
	if last != 3 {
		t.Fatalf("Append returned %d, want 3", last)
	}
	if !reflect.DeepEqual(s.EntriesFrom(0), []raft.Entry{entry(1, "a"), entry(1, "b"), entry(1, "c")}) {
		t.Fatalf("EntriesFrom(0) = %v", s.EntriesFrom(0))
	}
}

func TestCommitNeverDecreasesOrOvershoots(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))
	s.AppendNew(entry(1, "b"))

	s.Commit(5) // past LastIndex, clamps to 2
	if s.CommitIndex() != 2 {
		t.Fatalf("CommitIndex() = %d, want 2", s.CommitIndex())
	}
	s.Commit(1) // lower than current, no-op
	if s.CommitIndex() != 2 {
		t.Fatalf("CommitIndex() = %d, want unchanged 2", s.CommitIndex())
	}
}

func TestApplied(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))
	s.AppendNew(entry(1, "b"))
	s.Commit(2)

	if !s.HasUnapplied() {
		t.Fatal("HasUnapplied() should be true")
	}
	e := s.Applied()
	if !reflect.DeepEqual(e, entry(1, "a")) {
		t.Fatalf("Applied() = %v", e)
	}
	if s.LastApplied() != 1 {
		t.Fatalf("LastApplied() = %d", s.LastApplied())
	}

	s.Applied()
	if s.HasUnapplied() {
		t.Fatal("HasUnapplied() should be false once caught up")
	}
}

func TestApplied_PanicsWithoutUnapplied(t *testing.T) {
	s := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected Applied() to panic when nothing is unapplied")
		}
	}()
	s.Applied()
}

func TestPeerProgressTracking(t *testing.T) {
	s := New()
	s.AppendNew(entry(1, "a"))
	s.AppendNew(entry(1, "b"))

	peers := []raft.NodeId{"p1", "p2"}
	s.ResetPeersForLeader(peers)

	if s.NextIndexFor("p1") != 3 {
		t.Fatalf("NextIndexFor(p1) = %d, want 3", s.NextIndexFor("p1"))
	}
	if s.MatchIndexFor("p1") != 0 {
		t.Fatalf("MatchIndexFor(p1) = %d, want 0", s.MatchIndexFor("p1"))
	}

	s.DecrementNextFor("p1")
	if s.NextIndexFor("p1") != 2 {
		t.Fatalf("NextIndexFor(p1) after decrement = %d, want 2", s.NextIndexFor("p1"))
	}

	// Saturates at 1.
	s.ResetNextFor("p1", 1)
	s.DecrementNextFor("p1")
	if s.NextIndexFor("p1") != 1 {
		t.Fatalf("NextIndexFor(p1) should saturate at 1, got %d", s.NextIndexFor("p1"))
	}

	s.MatchFor("p2", 2)
	all := s.AllMatchIndexes()
	if all["p2"] != 2 {
		t.Fatalf("AllMatchIndexes()[p2] = %d, want 2", all["p2"])
	}
}
