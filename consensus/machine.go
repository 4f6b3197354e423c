package consensus

import (
	"log"
	"sync/atomic"

	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/clientgw"
	"github.com/CynthiaZ92/raft/cluster"
	"github.com/CynthiaZ92/raft/election"
	"github.com/CynthiaZ92/raft/logstore"
	"github.com/CynthiaZ92/raft/timing"
)

// machine holds all the state a peer's FSM goroutine owns exclusively.
// Nothing here is touched from any other goroutine: no field
// needs a lock. roleSnapshot is the one exception, mirrored on every
// role change so Node.Role() has something safe to read from outside.
type machine struct {
	id   raft.NodeId
	role raft.Role

	roleSnapshot atomic.Uint32

	persistent   raft.PersistentState
	transport    raft.Transport
	stateMachine raft.StateMachine
	logger       *log.Logger

	log     *logstore.Store
	gateway *clientgw.Gateway

	clusterInfo *cluster.Info // nil until Init is received
	leader      raft.NodeId   // last-known leader, "" if unknown

	tally *election.Tally // non-nil only while Candidate

	electionTimer  *timing.RealTimer
	heartbeatTimer *timing.RealTimer
}

func (m *machine) currentTerm() raft.Term {
	return m.persistent.GetCurrentTerm()
}

// dispatch implements the universal preemption rule ahead of
// every role-specific handler: if the message carries a term greater
// than currentTerm, adopt it and become Follower before processing the
// message in the new role.
func (m *machine) dispatch(from raft.NodeId, msg interface{}) {
	if m.role == raft.Initialise {
		if init, ok := msg.(raft.Init); ok {
			m.handleInit(init)
		}
		// Every other message kind is silently dropped before Init
		// (unhandled-role-combination rule).
		return
	}

	// ClientRequest senders are clients, not cluster members, and are
	// exempt from this check; every other message kind only ever
	// legitimately arrives from a peer in this cluster's membership.
	if _, isClientRequest := msg.(raft.ClientRequest); !isClientRequest && from != "" && !m.clusterInfo.IsPeer(from) {
		m.logger.Printf("[raft %s] dropping message from unrecognized peer %s: %v", m.id, from, raft.NewErrUnknownPeer())
		return
	}

	if t, ok := messageTerm(msg); ok && t > m.currentTerm() {
		m.becomeFollower(t, "")
	}

	switch m.role {
	case raft.Follower:
		m.dispatchFollower(from, msg)
	case raft.Candidate:
		m.dispatchCandidate(from, msg)
	case raft.Leader:
		m.dispatchLeader(from, msg)
	}
}

// messageTerm extracts the Term field from any message kind that
// carries one.
func messageTerm(msg interface{}) (raft.Term, bool) {
	switch v := msg.(type) {
	case raft.RequestVote:
		return v.Term, true
	case raft.GrantVote:
		return v.Term, true
	case raft.DenyVote:
		return v.Term, true
	case raft.AppendEntries:
		return v.Term, true
	case raft.AppendSuccess:
		return v.Term, true
	case raft.AppendFailure:
		return v.Term, true
	default:
		return 0, false
	}
}

func (m *machine) handleInit(init raft.Init) {
	ci, err := cluster.New(init.Nodes, m.id)
	if err != nil {
		m.logger.Printf("[raft %s] FATAL: invalid Init: %v", m.id, err)
		panic(err)
	}
	m.clusterInfo = ci
	m.becomeFollowerFresh()
}

// -- entry actions

// becomeFollowerFresh enters Follower without changing term - used on
// Init, and whenever a role transitions to Follower without observing a
// higher term (e.g. a Candidate losing to a new leader at the same
// term).
func (m *machine) becomeFollowerFresh() {
	m.setRole(raft.Follower)
	m.tally = nil
	m.electionTimer.Reset()
	m.heartbeatTimer.Stop()
}

// becomeFollower adopts newTerm (if higher than current), clears votes,
// and enters Follower. leaderHint, if non-empty, updates the known
// leader; dispatch passes an empty hint, and handleAppendEntries records
// the leader itself.
func (m *machine) becomeFollower(newTerm raft.Term, leaderHint raft.NodeId) {
	current := m.currentTerm()
	if newTerm > current {
		votedFor := raft.NodeId("")
		if err := m.persistent.SetCurrentTermAndVotedFor(newTerm, votedFor); err != nil {
			m.logger.Printf("[raft %s] FATAL: persist term: %v", m.id, err)
			panic(err)
		}
	}
	if leaderHint != "" {
		m.leader = leaderHint
	}
	m.becomeFollowerFresh()
}

// becomeCandidate runs the Candidate entry action.
func (m *machine) becomeCandidate() {
	newTerm := m.currentTerm() + 1
	if err := m.persistent.SetCurrentTermAndVotedFor(newTerm, m.id); err != nil {
		m.logger.Printf("[raft %s] FATAL: persist term: %v", m.id, err)
		panic(err)
	}
	m.setRole(raft.Candidate)
	m.tally = election.NewTally(m.id, m.clusterInfo.QuorumSize())

	lastIndex := m.log.LastIndex()
	lastTerm := m.lastLogTerm()
	rv := election.NewRequestVote(newTerm, m.id, lastIndex, lastTerm)
	m.clusterInfo.ForEachPeer(func(p raft.NodeId) {
		m.transport.SendAsync(p, rv)
	})

	m.electionTimer.Reset()

	// Single-node cluster: self-vote already satisfies quorum.
	if m.clusterInfo.Size() == 1 {
		m.becomeLeader()
	}
}

// becomeLeader runs the Leader entry action.
func (m *machine) becomeLeader() {
	m.setRole(raft.Leader)
	m.tally = nil
	m.leader = m.id
	m.log.ResetPeersForLeader(m.clusterInfo.Peers())
	m.electionTimer.Stop()
	m.heartbeatTimer.Reset()
	m.broadcastAppendEntries()
}

func (m *machine) setRole(r raft.Role) {
	if m.role != r {
		m.logger.Printf("[raft %s] %s -> %s", m.id, m.role, r)
		m.role = r
	}
	m.roleSnapshot.Store(uint32(r))
}

func (m *machine) lastLogTerm() raft.Term {
	li := m.log.LastIndex()
	if li == 0 {
		return 0
	}
	return m.log.TermAt(li)
}

// -- timers

func (m *machine) electionTimeoutFired() {
	switch m.role {
	case raft.Follower, raft.Candidate:
		m.logger.Printf("[raft %s] election timeout, starting election for term %d", m.id, m.currentTerm()+1)
		m.becomeCandidate()
	}
}

// appendLocalCommand is Node.SubmitCommand's entry into the FSM
// goroutine: a direct, non-client-bound append (no ClientRef, so
// applyCommitted will never try to reply to it over the transport).
func (m *machine) appendLocalCommand(command raft.Command) (raft.LogIndex, error) {
	if m.role != raft.Leader {
		return 0, raft.NewErrNotLeader()
	}
	entry := raft.Entry{Term: m.currentTerm(), Command: command}
	index := m.log.AppendNew(entry)
	m.broadcastAppendEntries()
	return index, nil
}

func (m *machine) heartbeatFired() {
	if m.role != raft.Leader {
		return
	}
	m.broadcastAppendEntries()
	m.heartbeatTimer.Reset()
}
