package raft

import "testing"

func TestErrStopped_RoundTrip(t *testing.T) {
	err := NewErrStopped()
	if !IsErrStopped(err) {
		t.Fatal("IsErrStopped should recognize its own sentinel")
	}
	if IsErrNotLeader(err) {
		t.Fatal("IsErrNotLeader should not match a different sentinel")
	}
}

func TestErrNotLeader_RoundTrip(t *testing.T) {
	err := NewErrNotLeader()
	if !IsErrNotLeader(err) {
		t.Fatal("IsErrNotLeader should recognize its own sentinel")
	}
}

func TestErrUnknownPeer_RoundTrip(t *testing.T) {
	err := NewErrUnknownPeer()
	if !IsErrUnknownPeer(err) {
		t.Fatal("IsErrUnknownPeer should recognize its own sentinel")
	}
}

func TestErrLogInvariant_WrapsDetailButStillMatches(t *testing.T) {
	err := NewErrLogInvariant("index 9 beyond last entry 3")
	if !IsErrLogInvariant(err) {
		t.Fatal("IsErrLogInvariant should still match after wrapping with detail")
	}
	if err.Error() == "" {
		t.Fatal("wrapped error should carry a non-empty message")
	}
}
