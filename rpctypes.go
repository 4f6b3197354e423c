package raft

// Message schema.
//
// Election and heartbeat timeouts are not messages: they fire as timer
// events straight into a peer's own FSM loop and never appear on the wire.

// Init carries the frozen cluster membership to a newly-created peer.
// It is the only message a peer accepts while in the Initialise role.
type Init struct {
	Nodes []NodeId
}

// RequestVote is sent by a candidate to every other peer at the start of
// an election.
type RequestVote struct {
	Term         Term
	CandidateId  NodeId
	LastLogIndex LogIndex
	LastLogTerm  Term
}

// GrantVote is a RequestVote reply granting the vote.
type GrantVote struct {
	Term Term
}

// DenyVote is a RequestVote reply withholding the vote.
type DenyVote struct {
	Term Term
}

// AppendEntries is sent by the leader to replicate log entries, and
// (with an empty or tail Entries slice) doubles as the heartbeat.
type AppendEntries struct {
	Term         Term
	LeaderId     NodeId
	PrevLogIndex LogIndex
	PrevLogTerm  Term
	Entries      []Entry
	LeaderCommit LogIndex
}

// AppendSuccess acknowledges a successful AppendEntries application and
// reports the follower's resulting last log index.
type AppendSuccess struct {
	Term  Term
	Index LogIndex
}

// AppendFailure reports a failed consistency check; the leader is expected
// to decrement nextIndex for the sender and retry on the next heartbeat.
type AppendFailure struct {
	Term Term
}

// ClientRequest carries a client command to a peer. CID is chosen by the
// client and is only meaningful to it; the core does not deduplicate
// across CIDs.
type ClientRequest struct {
	CID     int64
	Command Command
}

// ClientReply is sent back to the node that originated a ClientRequest
// once its entry has committed and been applied.
type ClientReply struct {
	CID    int64
	Result CommandResult
}

// CommandResult is whatever the state machine returns from applying a
// command. Its shape is opaque to the consensus core.
type CommandResult interface{}
