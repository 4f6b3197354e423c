// Package raft implements the consensus core of a Raft cluster: leader
// election, log replication, and commit/apply over a small, statically
// configured set of peers that communicate by asynchronous message
// passing.
//
// This package holds the shared data model and the interfaces that
// separate the core from its collaborators (transport, persistence, the
// replicated state machine). The finite state machine that drives a peer
// lives in the consensus subpackage.
package raft

// Term is a monotonically non-decreasing election epoch.
// A peer's currentTerm never decreases; observing a higher term anywhere
// causes the peer to adopt it and revert to Follower.
type Term uint64

// NodeId is an opaque, comparable handle identifying a peer. It is used
// both as a message destination and as a map key; it carries no meaning
// about transport-level addressing.
type NodeId string

// LogIndex is a one-based index into the Log. Index 0 is the sentinel
// "empty prefix" - it never names a real entry.
type LogIndex uint64

// Command is an opaque, serialized payload for the replicated state
// machine. Its contents are never inspected by the consensus core.
type Command []byte

// ClientRef names the client that is waiting on a log entry to commit:
// the node it should be replied to on, and the request id it used.
type ClientRef struct {
	Origin NodeId
	CID    int64
}

// Entry is a single record in the replicated log. Entries are immutable
// once written; a log suffix may only be truncated while uncommitted.
type Entry struct {
	Term    Term
	Command Command

	// Client is the leader-local back-reference to the request that
	// produced this entry, if any. It does not need to round-trip through
	// replication: followers may drop it, since only the leader that
	// committed the entry ever replies to a client.
	Client *ClientRef
}

// Role is a peer's current position in the Raft state machine.
type Role uint32

const (
	// Initialise is the role a peer is created in, before it has received
	// its Init message and learned the cluster membership.
	Initialise Role = iota
	Follower
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Initialise:
		return "Initialise"
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	default:
		return "Unknown"
	}
}
