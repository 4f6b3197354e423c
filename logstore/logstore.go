// Package logstore implements the append-only Raft log: dense entries
// indexed from 1, prefix-match/truncate-on-conflict semantics, and the
// commit/apply bookkeeping and per-peer nextIndex/matchIndex tracking
// that the replication subsystem needs.
package logstore

import (
	"fmt"

	raft "github.com/CynthiaZ92/raft"
)

// Store is an in-memory implementation of raft.Log plus the mutable
// commit/apply indices and per-peer replication progress that a single
// peer owns. It is only ever touched from the owning peer's single FSM
// goroutine, so it needs no internal locking.
type Store struct {
	entries []raft.Entry // entries[i] is the entry at LogIndex i+1

	commitIndex LogIndex
	lastApplied LogIndex

	nextIndex  map[raft.NodeId]LogIndex
	matchIndex map[raft.NodeId]LogIndex
}

// LogIndex is an alias kept local to avoid repeating the raft. qualifier
// through this file; it is identical to raft.LogIndex.
type LogIndex = raft.LogIndex

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries:    nil,
		nextIndex:  make(map[raft.NodeId]LogIndex),
		matchIndex: make(map[raft.NodeId]LogIndex),
	}
}

// -- raft.Log

func (s *Store) LastIndex() LogIndex {
	return LogIndex(len(s.entries))
}

func (s *Store) TermAt(i LogIndex) raft.Term {
	if i == 0 {
		return 0
	}
	if i > s.LastIndex() {
		panic(raft.NewErrLogInvariant(fmt.Sprintf("TermAt: index %d beyond last entry %d", i, s.LastIndex())))
	}
	return s.entries[i-1].Term
}

func (s *Store) HasEntryAt(i LogIndex) bool {
	return i >= 1 && i <= s.LastIndex()
}

func (s *Store) EntriesFrom(from LogIndex) []raft.Entry {
	if from >= s.LastIndex() {
		return []raft.Entry{}
	}
	out := make([]raft.Entry, s.LastIndex()-from)
	copy(out, s.entries[from:])
	return out
}

func (s *Store) EntryAt(i LogIndex) raft.Entry {
	if !s.HasEntryAt(i) {
		panic(raft.NewErrLogInvariant(fmt.Sprintf("EntryAt: no entry at index %d", i)))
	}
	return s.entries[i-1]
}

// Append places entries starting at atIndex+1. For each incoming entry in turn: if the log already has an
// entry at that position with a different term, the log is truncated to
// just before that position before appending continues. Entries already
// present with a matching term are left untouched - replaying an accepted
// AppendEntries is therefore a no-op.
func (s *Store) Append(atIndex LogIndex, newEntries []raft.Entry) LogIndex {
	pos := atIndex + 1
	for _, e := range newEntries {
		if s.HasEntryAt(pos) {
			if s.entries[pos-1].Term != e.Term {
				s.entries = s.entries[:pos-1]
				s.entries = append(s.entries, e)
			}
			// else: identical entry already present, leave it alone.
		} else {
			s.entries = append(s.entries, e)
		}
		pos++
	}
	return s.LastIndex()
}

// AppendNew appends a single leader-authored entry at LastIndex()+1.
func (s *Store) AppendNew(entry raft.Entry) LogIndex {
	s.entries = append(s.entries, entry)
	return s.LastIndex()
}

// -- commit / apply

// CommitIndex returns the highest index known to be committed.
func (s *Store) CommitIndex() LogIndex {
	return s.commitIndex
}

// Commit advances commitIndex to max(commitIndex, min(i, LastIndex())).
// commitIndex never decreases and never runs past the end of the log.
func (s *Store) Commit(i LogIndex) {
	if i > s.LastIndex() {
		i = s.LastIndex()
	}
	if i > s.commitIndex {
		s.commitIndex = i
	}
}

// LastApplied returns the highest index handed to the state machine.
func (s *Store) LastApplied() LogIndex {
	return s.lastApplied
}

// HasUnapplied reports whether lastApplied < commitIndex.
func (s *Store) HasUnapplied() bool {
	return s.lastApplied < s.commitIndex
}

// Applied increments lastApplied by one and returns the entry that was
// just marked applied. Precondition: HasUnapplied().
func (s *Store) Applied() raft.Entry {
	if !s.HasUnapplied() {
		panic(raft.NewErrLogInvariant(fmt.Sprintf("Applied: lastApplied %d is not behind commitIndex %d", s.lastApplied, s.commitIndex)))
	}
	s.lastApplied++
	return s.EntryAt(s.lastApplied)
}

// -- per-peer replication progress

// ResetPeersForLeader initializes nextIndex[p] = LastIndex()+1 and
// matchIndex[p] = 0 for every given peer; called on entering Leader.
func (s *Store) ResetPeersForLeader(peers []raft.NodeId) {
	s.nextIndex = make(map[raft.NodeId]LogIndex, len(peers))
	s.matchIndex = make(map[raft.NodeId]LogIndex, len(peers))
	next := s.LastIndex() + 1
	for _, p := range peers {
		s.nextIndex[p] = next
		s.matchIndex[p] = 0
	}
}

// NextIndexFor returns nextIndex[p].
func (s *Store) NextIndexFor(p raft.NodeId) LogIndex {
	return s.nextIndex[p]
}

// MatchIndexFor returns matchIndex[p].
func (s *Store) MatchIndexFor(p raft.NodeId) LogIndex {
	return s.matchIndex[p]
}

// ResetNextFor sets nextIndex[p] = i directly (used after a successful
// AppendEntries, alongside MatchFor).
func (s *Store) ResetNextFor(p raft.NodeId, i LogIndex) {
	s.nextIndex[p] = i
}

// DecrementNextFor decrements nextIndex[p], saturating at 1.
func (s *Store) DecrementNextFor(p raft.NodeId) {
	if s.nextIndex[p] > 1 {
		s.nextIndex[p]--
	}
}

// MatchFor sets matchIndex[p] = i.
func (s *Store) MatchFor(p raft.NodeId, i LogIndex) {
	s.matchIndex[p] = i
}

// AllMatchIndexes returns a snapshot of the current matchIndex map, for
// callers (e.g. the replication package's commit-advancement rule) that
// need to scan every peer's progress.
func (s *Store) AllMatchIndexes() map[raft.NodeId]LogIndex {
	out := make(map[raft.NodeId]LogIndex, len(s.matchIndex))
	for k, v := range s.matchIndex {
		out[k] = v
	}
	return out
}
