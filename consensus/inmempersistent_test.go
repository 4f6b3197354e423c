package consensus

import (
	"sync"

	raft "github.com/CynthiaZ92/raft"
)

// inMemoryPersistentState is a test-only raft.PersistentState, kept as a
// plain mutex-guarded struct rather than the standalone SetCurrentTerm/
// SetVotedFor split this module's interfaces.go collapses into one
// durability point.
type inMemoryPersistentState struct {
	mu          sync.Mutex
	currentTerm raft.Term
	votedFor    raft.NodeId
}

func (s *inMemoryPersistentState) GetCurrentTerm() raft.Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTerm
}

func (s *inMemoryPersistentState) GetVotedFor() raft.NodeId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.votedFor
}

func (s *inMemoryPersistentState) SetCurrentTermAndVotedFor(term raft.Term, votedFor raft.NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTerm = term
	s.votedFor = votedFor
	return nil
}
