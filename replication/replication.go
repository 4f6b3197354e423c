// Package replication implements the Raft replication subsystem:
// AppendEntries construction, the follower consistency check, and the
// leader's commit-index advancement rule.
package replication

import (
	raft "github.com/CynthiaZ92/raft"
)

// BuildAppendEntries constructs the AppendEntries a leader sends to peer
// p, given p's current nextIndex and the leader's log and commit index.
// Heartbeats are just the degenerate case where nextIndex is already
// past the end of the log, producing an empty Entries slice - they are
// not a distinct wire message.
func BuildAppendEntries(
	leaderId raft.NodeId,
	term raft.Term,
	log raft.Log,
	nextIndexForPeer raft.LogIndex,
	commitIndex raft.LogIndex,
) raft.AppendEntries {
	prevIndex := nextIndexForPeer - 1
	var prevTerm raft.Term
	if prevIndex > 0 {
		prevTerm = log.TermAt(prevIndex)
	}
	return raft.AppendEntries{
		Term:         term,
		LeaderId:     leaderId,
		PrevLogIndex: prevIndex,
		PrevLogTerm:  prevTerm,
		Entries:      log.EntriesFrom(nextIndexForPeer - 1),
		LeaderCommit: commitIndex,
	}
}

// CheckResult is the outcome of applying the follower consistency check.
type CheckResult struct {
	Accepted     bool
	NewLastIndex raft.LogIndex // valid only if Accepted
}

// CheckAndApply implements the follower-side steps of AppendEntries
// handling after the term comparison - rejecting a stale term (and the
// universal preemption rule for a newer one) is the caller's job and
// must already have been done before this runs. It mutates log (append/truncate, and advances
// commitIndex) only when the request is accepted.
func CheckAndApply(log raft.Log, commit func(raft.LogIndex), r raft.AppendEntries) CheckResult {
	// 2. Reject if we lack an entry at PrevLogIndex, or its term mismatches.
	if r.PrevLogIndex > 0 {
		if !log.HasEntryAt(r.PrevLogIndex) || log.TermAt(r.PrevLogIndex) != r.PrevLogTerm {
			return CheckResult{Accepted: false}
		}
	}

	// 3/4. Truncate on conflict, then append new entries.
	newLastIndex := log.Append(r.PrevLogIndex, r.Entries)

	// 5. Advance commitIndex to min(leaderCommit, lastIndex).
	leaderCommit := r.LeaderCommit
	if leaderCommit > newLastIndex {
		leaderCommit = newLastIndex
	}
	commit(leaderCommit)

	return CheckResult{Accepted: true, NewLastIndex: newLastIndex}
}

// MatchIndexes is the per-peer replicated-index snapshot the commit rule
// scans; it excludes the leader itself, which always counts as matched
// at log.LastIndex().
type MatchIndexes map[raft.NodeId]raft.LogIndex

// AdvanceCommitIndex implements the commit-advancement rule: find the
// largest N > commitIndex such that termOf(N) == currentTerm
// and a majority of peers (including self) have matchIndex[p] >= N.
// Returns the new commit index, or the unchanged commitIndex if no such
// N exists. Raft forbids committing prior-term entries by replica count
// alone, so the termOf(N) == currentTerm check is mandatory - this is
// what distinguishes correct leader commit from naive majority counting.
func AdvanceCommitIndex(
	log raft.Log,
	currentTerm raft.Term,
	commitIndex raft.LogIndex,
	matches MatchIndexes,
	quorumSize int,
) raft.LogIndex {
	lastIndex := log.LastIndex()
	best := commitIndex

	for n := commitIndex + 1; n <= lastIndex; n++ {
		termAtN := log.TermAt(n)
		if termAtN > currentTerm {
			break
		}
		if termAtN < currentTerm {
			continue
		}
		count := 1 // self
		for _, m := range matches {
			if m >= n {
				count++
			}
		}
		if count >= quorumSize {
			best = n
		}
	}

	return best
}
