package consensus

import (
	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/replication"
)

// broadcastAppendEntries sends every peer an AppendEntries built from its
// own nextIndex. This serves both as the eager replication on a new
// client command and as the periodic/inaugural heartbeat - they are the
// same wire message, just with different Entries payloads depending on
// each peer's nextIndex.
func (m *machine) broadcastAppendEntries() {
	term := m.currentTerm()
	commitIndex := m.log.CommitIndex()
	m.clusterInfo.ForEachPeer(func(p raft.NodeId) {
		ae := replication.BuildAppendEntries(m.id, term, m.log, m.log.NextIndexFor(p), commitIndex)
		m.transport.SendAsync(p, ae)
	})

	// A single-node cluster has no peer to acknowledge an append: its own
	// copy is already a majority, so commit and apply right away.
	if m.clusterInfo.Size() == 1 {
		m.advanceCommitIndex()
		m.applyCommitted()
	}
}

// advanceCommitIndex recomputes the commit index after a peer's
// matchIndex has just moved.
func (m *machine) advanceCommitIndex() {
	newIndex := replication.AdvanceCommitIndex(
		m.log,
		m.currentTerm(),
		m.log.CommitIndex(),
		m.log.AllMatchIndexes(),
		m.clusterInfo.QuorumSize(),
	)
	m.log.Commit(newIndex)
}
