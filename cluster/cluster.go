// Package cluster holds the frozen membership list a peer learns on Init
// and the quorum arithmetic derived from it.
package cluster

import (
	"fmt"

	raft "github.com/CynthiaZ92/raft"
)

// Info manages a peer's view of cluster membership.
//
// Membership is frozen for the lifetime of the cluster (no dynamic
// reconfiguration): an Info value is built once, from the Init message,
// and never mutated afterwards.
type Info struct {
	self  raft.NodeId
	peers []raft.NodeId
}

// New builds an Info from the full membership list and this peer's id.
// allNodes must contain at least 1 entry (a single-node cluster is
// valid - it elects itself leader without peer messages) and must
// include self.
func New(allNodes []raft.NodeId, self raft.NodeId) (*Info, error) {
	if len(allNodes) < 1 {
		return nil, fmt.Errorf("cluster: allNodes must have at least 1 entry, got %d", len(allNodes))
	}

	seen := make(map[raft.NodeId]bool, len(allNodes))
	peers := make([]raft.NodeId, 0, len(allNodes)-1)
	foundSelf := false

	for _, id := range allNodes {
		if id == "" {
			return nil, fmt.Errorf("cluster: allNodes contains an empty NodeId")
		}
		if seen[id] {
			return nil, fmt.Errorf("cluster: allNodes contains duplicate NodeId: %v", id)
		}
		seen[id] = true
		if id == self {
			foundSelf = true
			continue
		}
		peers = append(peers, id)
	}

	if !foundSelf {
		return nil, fmt.Errorf("cluster: allNodes does not contain self: %v", self)
	}

	return &Info{self, peers}, nil
}

// Self returns this peer's own NodeId.
func (ci *Info) Self() raft.NodeId {
	return ci.self
}

// Peers returns every other member of the cluster, excluding self.
func (ci *Info) Peers() []raft.NodeId {
	return ci.peers
}

// ForEachPeer calls f for every peer other than self.
func (ci *Info) ForEachPeer(f func(raft.NodeId)) {
	for _, id := range ci.peers {
		f(id)
	}
}

// IsPeer reports whether id names a member of this cluster other than
// self.
func (ci *Info) IsPeer(id raft.NodeId) bool {
	for _, p := range ci.peers {
		if p == id {
			return true
		}
	}
	return false
}

// Size returns the total cluster size, including self.
func (ci *Info) Size() int {
	return len(ci.peers) + 1
}

// QuorumSize returns ceil((N+1)/2) for this cluster's size N.
func (ci *Info) QuorumSize() int {
	return QuorumSizeForClusterSize(ci.Size())
}

// QuorumSizeForClusterSize computes the majority threshold for a cluster
// of the given size: ceil((N+1)/2), equivalently N/2 + 1 for integer N.
func QuorumSizeForClusterSize(n int) int {
	return n/2 + 1
}
