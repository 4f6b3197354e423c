// Package clientgw implements the client gateway: forwarding client
// requests to the known leader, and - on the leader - dispatching the
// state machine's result back to the request's origin once its entry
// commits and applies.
//
// Binding and dispatch here are synchronous with log application -
// application happens with no interleaving against the next inbound
// message, so there is no separate applier goroutine to coordinate with.
package clientgw

import (
	raft "github.com/CynthiaZ92/raft"
)

// Gateway tracks, on the leader only, which peer and CID to reply to for
// each log index it has promised a reply for.
type Gateway struct {
	pending map[raft.LogIndex]raft.ClientRef
}

// New returns an empty Gateway.
func New() *Gateway {
	return &Gateway{pending: make(map[raft.LogIndex]raft.ClientRef)}
}

// Bind records that, once index commits and applies, its result should
// be sent to ref. Called when the leader appends a client-originated
// entry.
func (g *Gateway) Bind(index raft.LogIndex, ref raft.ClientRef) {
	g.pending[index] = ref
}

// Take removes and returns the binding for index, if any. Called once,
// at the moment an entry is applied, so a reply is sent at most once per
// committed entry, giving an at-most-once delivery guarantee.
func (g *Gateway) Take(index raft.LogIndex) (raft.ClientRef, bool) {
	ref, ok := g.pending[index]
	if ok {
		delete(g.pending, index)
	}
	return ref, ok
}

// DropAfter discards every binding for an index greater than keepIndex.
// Called when a new leader's AppendEntries overwrites this peer's
// previously-uncommitted tail: those entries' original requesters will
// never see this peer's promised index commit, and must rely on their
// own retry policy.
func (g *Gateway) DropAfter(keepIndex raft.LogIndex) {
	for idx := range g.pending {
		if idx > keepIndex {
			delete(g.pending, idx)
		}
	}
}

// Forward decides where a ClientRequest received by a non-leader should
// go: to the known leader, or nowhere if none is known - the client is
// expected to retry.
func Forward(transport raft.Transport, leader raft.NodeId, req raft.ClientRequest) {
	if leader == "" {
		return
	}
	transport.SendAsync(leader, req)
}

// Reply sends a committed-and-applied result back to the request's
// origin.
func Reply(transport raft.Transport, ref raft.ClientRef, result raft.CommandResult) {
	transport.SendAsync(ref.Origin, raft.ClientReply{CID: ref.CID, Result: result})
}
