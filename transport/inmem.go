// Package transport provides a reference, in-process implementation of
// raft.Transport: a shared mailbox registry where every peer has an
// inbound channel, and sends to a given destination are delivered in the
// order they were issued (FIFO per ordered sender/receiver pair),
// asynchronously and at-most-once.
//
// The consensus core treats transport as opaque - a TCP or
// RPC-framework-backed Transport would satisfy the same interface.
package transport

import (
	"fmt"
	"sync"

	raft "github.com/CynthiaZ92/raft"
)

// Envelope pairs a message with the NodeId that sent it.
type Envelope struct {
	From raft.NodeId
	Msg  interface{}
}

// Registry is a shared switchboard of per-peer inbound mailboxes.
type Registry struct {
	mu        sync.RWMutex
	mailboxes map[raft.NodeId]chan Envelope
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mailboxes: make(map[raft.NodeId]chan Envelope)}
}

// Register creates (or replaces) the inbox for id, with the given buffer
// size, and returns it for the owning peer to read from.
func (r *Registry) Register(id raft.NodeId, bufferSize int) <-chan Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Envelope, bufferSize)
	r.mailboxes[id] = ch
	return ch
}

// Mailbox returns a raft.Transport bound to the given sender identity:
// every SendAsync call through it is tagged with From = self.
func (r *Registry) Mailbox(self raft.NodeId) raft.Transport {
	return &mailbox{registry: r, self: self}
}

type mailbox struct {
	registry *Registry
	self     raft.NodeId
}

// SendAsync implements raft.Transport. It never blocks the caller: if
// the destination's inbox is full, the message is dropped - best effort,
// with the leader's heartbeat/retry loop covering recovery.
func (m *mailbox) SendAsync(to raft.NodeId, msg interface{}) {
	m.registry.mu.RLock()
	ch, ok := m.registry.mailboxes[to]
	m.registry.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case ch <- Envelope{From: m.self, Msg: msg}:
	default:
		// Mailbox full: drop. The leader's heartbeat/nextIndex retry
		// loop, or the client's own retry policy, covers recovery.
	}
}

// String aids debugging/test failure messages.
func (e Envelope) String() string {
	return fmt.Sprintf("%v -> %T", e.From, e.Msg)
}
