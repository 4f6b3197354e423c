package consensus

import (
	raft "github.com/CynthiaZ92/raft"
)

func (m *machine) dispatchFollower(from raft.NodeId, msg interface{}) {
	switch r := msg.(type) {
	case raft.RequestVote:
		m.handleRequestVote(from, r)
	case raft.AppendEntries:
		m.handleAppendEntries(from, r)
	case raft.ClientRequest:
		m.forwardClientRequest(r)
	// GrantVote/DenyVote/AppendSuccess/AppendFailure arriving at a
	// Follower are stale replies to a candidacy or leadership this peer
	// no longer holds, so they are dropped silently.
	default:
	}
}
