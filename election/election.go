// Package election implements the Raft election subsystem: vote request
// construction, the vote grant/deny decision, and a candidate's vote
// tally.
package election

import (
	raft "github.com/CynthiaZ92/raft"
)

// NewRequestVote builds the RequestVote a candidate sends to every peer
// on entering Candidate.
func NewRequestVote(term raft.Term, candidateId raft.NodeId, lastLogIndex raft.LogIndex, lastLogTerm raft.Term) raft.RequestVote {
	return raft.RequestVote{
		Term:         term,
		CandidateId:  candidateId,
		LastLogIndex: lastLogIndex,
		LastLogTerm:  lastLogTerm,
	}
}

// Decision is the result of evaluating a RequestVote against this
// peer's state.
type Decision struct {
	Grant       bool
	CurrentTerm raft.Term // the term to reply with (the currentTerm passed in)
}

// Decide evaluates the vote grant/deny decision. currentTerm and votedFor
// are the receiver's state *after* the caller has applied any term bump
// via the universal preemption rule - so by the time Decide runs,
// r.Term <= currentTerm always holds, and rule 1 below handles
// r.Term < currentTerm.
//
// votedFor is the empty NodeId to mean "no vote cast this term".
func Decide(
	r raft.RequestVote,
	currentTerm raft.Term,
	votedFor raft.NodeId,
	lastLogIndex raft.LogIndex,
	lastLogTerm raft.Term,
) Decision {
	// 1. Stale term: deny, and don't touch votedFor.
	if r.Term < currentTerm {
		return Decision{Grant: false, CurrentTerm: currentTerm}
	}

	// 2. votedFor must be empty or already this candidate.
	alreadyEligible := votedFor == "" || votedFor == r.CandidateId

	// 3. Candidate's log must be at least as up-to-date as ours.
	candidateUpToDate := r.LastLogTerm > lastLogTerm ||
		(r.LastLogTerm == lastLogTerm && r.LastLogIndex >= lastLogIndex)

	grant := alreadyEligible && candidateUpToDate
	return Decision{Grant: grant, CurrentTerm: currentTerm}
}

// Tally tracks votes received during one candidacy. A fresh Tally always
// starts having voted for self.
type Tally struct {
	quorum   int
	received map[raft.NodeId]bool
}

// NewTally creates a Tally for a candidacy in a cluster requiring the
// given quorum size, with self already counted as a vote.
func NewTally(self raft.NodeId, quorumSize int) *Tally {
	t := &Tally{
		quorum:   quorumSize,
		received: make(map[raft.NodeId]bool),
	}
	t.received[self] = true
	return t
}

// AddGrant records a granted vote from the given peer and reports
// whether quorum has now been reached. Recording the same peer twice is
// harmless.
func (t *Tally) AddGrant(from raft.NodeId) bool {
	t.received[from] = true
	return len(t.received) >= t.quorum
}

// Count returns the number of votes received so far, including self.
func (t *Tally) Count() int {
	return len(t.received)
}
