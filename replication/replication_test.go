package replication

import (
	"testing"

	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/logstore"
)

func entry(term raft.Term, cmd string) raft.Entry {
	return raft.Entry{Term: term, Command: raft.Command(cmd)}
}

func TestBuildAppendEntries_Heartbeat(t *testing.T) {
	log := logstore.New()
	log.AppendNew(entry(1, "a"))

	ae := BuildAppendEntries("leader", 1, log, 2, 0)
	if len(ae.Entries) != 0 {
		t.Fatalf("expected empty Entries for a caught-up peer, got %v", ae.Entries)
	}
	if ae.PrevLogIndex != 1 || ae.PrevLogTerm != 1 {
		t.Fatalf("PrevLogIndex/Term = %d/%d", ae.PrevLogIndex, ae.PrevLogTerm)
	}
}

func TestBuildAppendEntries_CatchUp(t *testing.T) {
	log := logstore.New()
	log.AppendNew(entry(1, "a"))
	log.AppendNew(entry(1, "b"))

	ae := BuildAppendEntries("leader", 1, log, 1, 0)
	if len(ae.Entries) != 2 {
		t.Fatalf("expected 2 entries to replicate, got %d", len(ae.Entries))
	}
	if ae.PrevLogIndex != 0 {
		t.Fatalf("PrevLogIndex = %d, want 0", ae.PrevLogIndex)
	}
}

func TestCheckAndApply_RejectsOnPrevLogMismatch(t *testing.T) {
	log := logstore.New()
	log.AppendNew(entry(1, "a"))

	r := raft.AppendEntries{Term: 2, PrevLogIndex: 1, PrevLogTerm: 99}
	res := CheckAndApply(log, log.Commit, r)
	if res.Accepted {
		t.Fatal("expected rejection on PrevLogTerm mismatch")
	}
}

func TestCheckAndApply_AppendsAndAdvancesCommit(t *testing.T) {
	log := logstore.New()

	r := raft.AppendEntries{
		Term:         1,
		PrevLogIndex: 0,
		PrevLogTerm:  0,
		Entries:      []raft.Entry{entry(1, "a"), entry(1, "b")},
		LeaderCommit: 1,
	}
	res := CheckAndApply(log, log.Commit, r)
	if !res.Accepted {
		t.Fatal("expected acceptance")
	}
	if res.NewLastIndex != 2 {
		t.Fatalf("NewLastIndex = %d, want 2", res.NewLastIndex)
	}
	if log.CommitIndex() != 1 {
		t.Fatalf("CommitIndex() = %d, want 1", log.CommitIndex())
	}
}

func TestAdvanceCommitIndex_RequiresCurrentTermEntry(t *testing.T) {
	log := logstore.New()
	log.AppendNew(entry(1, "a")) // index 1, term 1 (prior term)
	log.AppendNew(entry(2, "b")) // index 2, term 2 (current term)

	matches := MatchIndexes{"p1": 2, "p2": 1}

	// Even though a majority (self + p1) has matchIndex >= 1, index 1 is
	// from a prior term and must never be committed by count alone.
	got := AdvanceCommitIndex(log, 2, 0, matches, 2)
	if got != 2 {
		t.Fatalf("AdvanceCommitIndex = %d, want 2 (only the current-term entry is safe to commit)", got)
	}
}

func TestAdvanceCommitIndex_NoQuorumNoAdvance(t *testing.T) {
	log := logstore.New()
	log.AppendNew(entry(1, "a"))

	matches := MatchIndexes{"p1": 0, "p2": 0}
	got := AdvanceCommitIndex(log, 1, 0, matches, 3)
	if got != 0 {
		t.Fatalf("AdvanceCommitIndex = %d, want 0 (no quorum)", got)
	}
}
