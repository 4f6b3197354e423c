package consensus

import (
	raft "github.com/CynthiaZ92/raft"
)

func (m *machine) dispatchCandidate(from raft.NodeId, msg interface{}) {
	switch r := msg.(type) {
	case raft.GrantVote:
		if m.tally.AddGrant(from) {
			m.becomeLeader()
		}
	case raft.DenyVote:
		// A higher-term denial is handled by the universal preemption
		// rule before dispatch ever reaches here; an equal-or-lower-term
		// denial is simply a lost vote and changes nothing.
		_ = r
	case raft.AppendEntries:
		// A current-term (or higher, already preempted) AppendEntries
		// means a leader has been elected this term: step down and
		// process it as a Follower would.
		if r.Term >= m.currentTerm() {
			m.becomeFollowerFresh()
			m.handleAppendEntries(from, r)
		}
	case raft.ClientRequest:
		m.forwardClientRequest(r)
	// RequestVote is deliberately unhandled here: only a Follower grants
	// or denies votes. A Candidate that receives one (e.g. from a
	// simultaneous competing candidate) drops it.
	default:
	}
}
