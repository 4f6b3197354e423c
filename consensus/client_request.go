package consensus

import (
	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/clientgw"
)

// forwardClientRequest redirects a client that reached a non-leader: a
// Follower or Candidate has no log to append to, so it hands the request
// off to whichever peer it currently believes is leader (if any).
func (m *machine) forwardClientRequest(r raft.ClientRequest) {
	clientgw.Forward(m.transport, m.leader, r)
}
