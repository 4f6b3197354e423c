package consensus

import (
	raft "github.com/CynthiaZ92/raft"
)

func (m *machine) dispatchLeader(from raft.NodeId, msg interface{}) {
	switch r := msg.(type) {
	case raft.ClientRequest:
		m.appendClientCommand(from, r)
	case raft.AppendSuccess:
		m.handleAppendSuccess(from, r)
	case raft.AppendFailure:
		m.handleAppendFailure(from, r)
	// RequestVote, GrantVote, DenyVote, and AppendEntries are not listed
	// under the Leader handlers here: Election Safety guarantees
	// at most one leader per term, so a same-term AppendEntries from
	// another self-proclaimed leader is a protocol violation rather than
	// a case to handle; this peer simply drops it.
	default:
	}
}

func (m *machine) appendClientCommand(from raft.NodeId, r raft.ClientRequest) {
	ref := raft.ClientRef{Origin: from, CID: r.CID}
	entry := raft.Entry{
		Term:    m.currentTerm(),
		Command: r.Command,
		Client:  &ref,
	}
	index := m.log.AppendNew(entry)
	m.gateway.Bind(index, ref)
	m.broadcastAppendEntries()
}

func (m *machine) handleAppendSuccess(from raft.NodeId, r raft.AppendSuccess) {
	m.log.MatchFor(from, r.Index)
	m.log.ResetNextFor(from, r.Index+1)
	m.advanceCommitIndex()
	m.applyCommitted()
}

func (m *machine) handleAppendFailure(from raft.NodeId, r raft.AppendFailure) {
	// A higher term is handled by the universal preemption rule before
	// dispatch reaches here; anything else just means a consistency
	// check failed and nextIndex should back off for the next heartbeat.
	m.log.DecrementNextFor(from)
}
