package raft

import (
	"github.com/go-errors/errors"
)

// ErrStopped is returned by any call made to a consensus module after it
// has stopped processing.
var errStopped = errors.Errorf("raft: consensus module is stopped")

func NewErrStopped() error {
	return errors.New(errStopped)
}

func IsErrStopped(e error) bool {
	return errors.Is(e, errStopped)
}

// ErrNotLeader is returned by consensus.Node.SubmitCommand when the module is not
// currently the leader.
var errNotLeader = errors.Errorf("raft: not currently leader")

func NewErrNotLeader() error {
	return errors.New(errNotLeader)
}

func IsErrNotLeader(e error) bool {
	return errors.Is(e, errNotLeader)
}

// ErrUnknownPeer marks a message whose sender is not in the cluster's
// membership list; the consensus FSM logs it and drops the message.
var errUnknownPeer = errors.Errorf("raft: unknown peer id")

func NewErrUnknownPeer() error {
	return errors.New(errUnknownPeer)
}

func IsErrUnknownPeer(e error) bool {
	return errors.Is(e, errUnknownPeer)
}

// ErrLogInvariant marks a programmer error: a log operation was asked to
// do something that would violate density, monotonic terms, or commit
// immutability. This is always fatal to the owning goroutine.
var errLogInvariant = errors.Errorf("raft: log invariant violation")

func NewErrLogInvariant(detail string) error {
	return errors.WrapPrefix(errLogInvariant, detail, 0)
}

func IsErrLogInvariant(e error) bool {
	return errors.Is(e, errLogInvariant)
}
