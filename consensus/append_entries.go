package consensus

import (
	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/clientgw"
	"github.com/CynthiaZ92/raft/replication"
)

// handleAppendEntries implements the follower side of the replication
// protocol plus the Follower-role entry/exit actions: recording the
// sender as leader and resetting the election timer. It is shared by the
// Follower and Candidate handlers - a Candidate that accepts a
// current-term AppendEntries has, by definition, just stepped down to
// Follower.
func (m *machine) handleAppendEntries(from raft.NodeId, r raft.AppendEntries) {
	currentTerm := m.currentTerm()

	// Step 1: stale term.
	if r.Term < currentTerm {
		m.transport.SendAsync(from, raft.AppendFailure{Term: currentTerm})
		return
	}

	m.leader = from
	m.electionTimer.Reset()

	// Find the first index at which r.Entries replaces an entry we already
	// hold; Append truncates the log from there.
	var overwriteFrom raft.LogIndex
	for i, e := range r.Entries {
		idx := r.PrevLogIndex + 1 + raft.LogIndex(i)
		if m.log.HasEntryAt(idx) && m.log.TermAt(idx) != e.Term {
			overwriteFrom = idx
			break
		}
	}

	result := replication.CheckAndApply(m.log, m.log.Commit, r)
	if !result.Accepted {
		m.transport.SendAsync(from, raft.AppendFailure{Term: m.currentTerm()})
		return
	}

	// A leader's AppendEntries that overwrites our uncommitted tail
	// invalidates any client bindings we were holding for those indexes
	// (only the leader that actually commits an entry ever replies, but
	// a former leader demoted to follower should not leave stale
	// bindings around).
	if overwriteFrom > 0 {
		m.gateway.DropAfter(overwriteFrom - 1)
	}

	m.applyCommitted()

	m.transport.SendAsync(from, raft.AppendSuccess{
		Term:  m.currentTerm(),
		Index: result.NewLastIndex,
	})
}

// applyCommitted applies every committed-but-unapplied entry in order:
// while lastApplied < commitIndex, apply the next entry's command and,
// if it carries a client back-reference and this peer is the leader,
// reply to that client. This runs synchronously with no interleaving
// against the next inbound message.
func (m *machine) applyCommitted() {
	for m.log.HasUnapplied() {
		entry := m.log.Applied()
		result := m.stateMachine.Apply(entry.Command)

		index := m.log.LastApplied()
		if m.role == raft.Leader && entry.Client != nil {
			if ref, ok := m.gateway.Take(index); ok {
				clientgw.Reply(m.transport, ref, result)
			}
		}
	}
}
