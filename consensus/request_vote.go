package consensus

import (
	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/election"
)

// handleRequestVote decides whether to grant a vote and replies either way.
func (m *machine) handleRequestVote(from raft.NodeId, r raft.RequestVote) {
	decision := election.Decide(
		r,
		m.currentTerm(),
		m.persistent.GetVotedFor(),
		m.log.LastIndex(),
		m.lastLogTerm(),
	)

	if decision.Grant {
		if err := m.persistent.SetCurrentTermAndVotedFor(decision.CurrentTerm, r.CandidateId); err != nil {
			m.logger.Printf("[raft %s] FATAL: persist vote: %v", m.id, err)
			panic(err)
		}
		m.electionTimer.Reset()
		m.transport.SendAsync(from, raft.GrantVote{Term: decision.CurrentTerm})
		return
	}

	m.transport.SendAsync(from, raft.DenyVote{Term: decision.CurrentTerm})
}
