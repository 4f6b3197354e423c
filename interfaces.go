package raft

// Interfaces that users of this package must implement, and the ones the
// subpackages use to talk back to the core without importing it.

// PersistentState is the durable term/votedFor pair every peer must flush
// before replying to any RPC that changed it.
//
// The consensus FSM only ever calls these methods from its own goroutine.
type PersistentState interface {
	GetCurrentTerm() Term
	GetVotedFor() NodeId

	// SetCurrentTermAndVotedFor persists both fields together. votedFor
	// may be the empty NodeId to mean "no vote cast this term".
	SetCurrentTermAndVotedFor(term Term, votedFor NodeId) error
}

// Transport is the point-to-point message delivery primitive the core
// depends on. Sends must not block the caller, and delivery must be
// reliable, in-order, and at-most-once between any given ordered pair of
// peers. How this is realized - in-process mailboxes, TCP, an
// RPC framework - is opaque to the core; see the transport package for a
// reference in-memory implementation, which is best-effort: it drops a
// message when the destination's mailbox is full.
type Transport interface {
	SendAsync(to NodeId, msg interface{})
}

// StateMachine is the opaque executor that committed log entries are
// handed to, in log order, one at a time.
type StateMachine interface {
	// Apply applies a single committed command and returns its result.
	// Called synchronously by the FSM; it must not block indefinitely.
	Apply(command Command) CommandResult
}

// Log is the append-only, prefix-matched, index-from-1 sequence of
// entries that the consensus core reads and mutates. See the logstore
// package for the reference in-memory implementation.
type Log interface {
	// LastIndex returns 0 for an empty log.
	LastIndex() LogIndex

	// TermAt returns the term of the entry at i, or 0 if i == 0.
	// Panics if i > LastIndex() - callers must check HasEntryAt first.
	TermAt(i LogIndex) Term

	// HasEntryAt reports whether 1 <= i <= LastIndex().
	HasEntryAt(i LogIndex) bool

	// EntriesFrom returns every entry after index from, up to
	// LastIndex(), exclusive of from itself. Returns an empty (non-nil)
	// slice if from >= LastIndex().
	EntriesFrom(from LogIndex) []Entry

	// EntryAt returns the entry at index i. Panics if !HasEntryAt(i).
	EntryAt(i LogIndex) Entry

	// Append places entries starting at atIndex+1, truncating the log
	// first if an existing entry at that position conflicts (same index,
	// different term). Appending an already-present, non-conflicting
	// suffix is a no-op for those entries (idempotent replay).
	Append(atIndex LogIndex, entries []Entry) LogIndex

	// AppendNew appends a single new entry authored locally (as a
	// leader) and returns its index. Always appends at LastIndex()+1.
	AppendNew(entry Entry) LogIndex
}
