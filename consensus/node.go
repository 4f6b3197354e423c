// Package consensus implements the per-peer Role FSM: role
// dispatch, entry/exit actions, the universal term-preemption rule, and
// the goroutine+channel driver loop that ties the election, replication,
// log store, timer, and client gateway packages together.
package consensus

import (
	"log"
	"sync/atomic"
	"time"

	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/clientgw"
	"github.com/CynthiaZ92/raft/logstore"
	"github.com/CynthiaZ92/raft/timing"
	"github.com/CynthiaZ92/raft/transport"
)

// Deps bundles everything a Node needs from the outside world. All
// fields are required.
type Deps struct {
	Persistent   raft.PersistentState
	Transport    raft.Transport
	StateMachine raft.StateMachine
	Logger       *log.Logger

	// Inbox is this peer's side of the transport: every message
	// addressed to it, from any peer or client, arrives here.
	Inbox <-chan transport.Envelope

	ElectionTimeout   timing.Range
	HeartbeatInterval timing.Range
}

// Node is one peer's consensus core: a goroutine running the Role FSM,
// reachable only through its Inbox channel, SubmitCommand and StopAsync. Per spec
// §5, all of its state is touched only by that single goroutine.
type Node struct {
	id raft.NodeId

	stopSignal chan struct{}
	stopped    int32
	stopErr    atomic.Value

	appendC chan appendRequest

	m *machine
}

// appendRequest carries a locally-submitted command (bypassing the
// transport entirely) into the FSM goroutine via SubmitCommand: a
// channel-actor round trip standing in for a mutex-guarded append, since
// the FSM's state is only ever touched by its own goroutine.
type appendRequest struct {
	command raft.Command
	reply   chan appendResult
}

type appendResult struct {
	index raft.LogIndex
	err   error
}

// NewNode creates a peer in the Initialise role and starts its FSM
// goroutine. The peer does nothing useful until it receives an Init
// message naming the cluster membership.
func NewNode(id raft.NodeId, deps Deps) *Node {
	m := &machine{
		id:             id,
		role:           raft.Initialise,
		persistent:     deps.Persistent,
		transport:      deps.Transport,
		stateMachine:   deps.StateMachine,
		logger:         deps.Logger,
		log:            logstore.New(),
		gateway:        clientgw.New(),
		electionTimer:  timing.NewRealTimer(deps.ElectionTimeout),
		heartbeatTimer: timing.NewRealTimer(deps.HeartbeatInterval),
	}
	m.electionTimer.Stop()
	m.heartbeatTimer.Stop()

	n := &Node{
		id:         id,
		stopSignal: make(chan struct{}),
		appendC:    make(chan appendRequest),
		m:          m,
	}

	go n.run(deps.Inbox)

	return n
}

// IsStopped reports whether the FSM goroutine has stopped.
func (n *Node) IsStopped() bool {
	return atomic.LoadInt32(&n.stopped) != 0
}

// StopAsync requests the FSM goroutine to stop. Safe to call more than
// once.
func (n *Node) StopAsync() {
	select {
	case <-n.stopSignal:
		// already stopping
	default:
		close(n.stopSignal)
	}
}

// StopError returns the panic value that stopped the goroutine, if any.
func (n *Node) StopError() interface{} {
	return n.stopErr.Load()
}

// Role returns the peer's current role. Safe to call from any goroutine.
func (n *Node) Role() raft.Role {
	return raft.Role(n.m.roleSnapshot.Load())
}

// SubmitCommand appends command to the log if this peer is currently
// leader, without going through a client-facing ClientRequest/ClientReply
// round trip on the transport. It blocks until the FSM goroutine has
// accepted or rejected the append.
//
// Returns raft.NewErrStopped() if the Node has stopped.
// Returns raft.NewErrNotLeader() if this peer is not currently leader.
func (n *Node) SubmitCommand(command raft.Command) (raft.LogIndex, error) {
	reply := make(chan appendResult, 1)
	select {
	case n.appendC <- appendRequest{command: command, reply: reply}:
	case <-n.stopSignal:
		return 0, raft.NewErrStopped()
	}
	select {
	case res := <-reply:
		return res.index, res.err
	case <-n.stopSignal:
		return 0, raft.NewErrStopped()
	}
}

func (n *Node) run(inbox <-chan transport.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			n.stopErr.Store(r)
		}
		atomic.StoreInt32(&n.stopped, 1)
		n.m.electionTimer.Stop()
		n.m.heartbeatTimer.Stop()
	}()

	for {
		var electionC <-chan time.Time
		var heartbeatC <-chan time.Time
		switch n.m.role {
		case raft.Follower, raft.Candidate:
			electionC = n.m.electionTimer.C()
		case raft.Leader:
			heartbeatC = n.m.heartbeatTimer.C()
		}

		select {
		case env, ok := <-inbox:
			if !ok {
				return
			}
			n.m.dispatch(env.From, env.Msg)

		case req := <-n.appendC:
			index, err := n.m.appendLocalCommand(req.command)
			req.reply <- appendResult{index: index, err: err}

		case <-electionC:
			n.m.electionTimeoutFired()

		case <-heartbeatC:
			n.m.heartbeatFired()

		case <-n.stopSignal:
			return
		}
	}
}
