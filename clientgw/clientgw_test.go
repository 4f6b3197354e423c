package clientgw

import (
	"reflect"
	"testing"

	raft "github.com/CynthiaZ92/raft"
)

type recordingTransport struct {
	sent []struct {
		to  raft.NodeId
		msg interface{}
	}
}

func (rt *recordingTransport) SendAsync(to raft.NodeId, msg interface{}) {
	rt.sent = append(rt.sent, struct {
		to  raft.NodeId
		msg interface{}
	}{to, msg})
}

func TestBindAndTake(t *testing.T) {
	g := New()
	ref := raft.ClientRef{Origin: "c1", CID: 7}
	g.Bind(3, ref)

	got, ok := g.Take(3)
	if !ok || got != ref {
		t.Fatalf("Take(3) = %v, %v", got, ok)
	}

	// Taken once; gone afterwards.
	_, ok = g.Take(3)
	if ok {
		t.Fatal("Take should not return the same binding twice")
	}
}

func TestTake_Unbound(t *testing.T) {
	g := New()
	_, ok := g.Take(1)
	if ok {
		t.Fatal("Take on an unbound index should report false")
	}
}

func TestDropAfter(t *testing.T) {
	g := New()
	g.Bind(1, raft.ClientRef{Origin: "c1", CID: 1})
	g.Bind(2, raft.ClientRef{Origin: "c1", CID: 2})
	g.Bind(3, raft.ClientRef{Origin: "c1", CID: 3})

	g.DropAfter(1)

	if _, ok := g.Take(1); !ok {
		t.Fatal("binding at or before keepIndex must survive")
	}
	if _, ok := g.Take(2); ok {
		t.Fatal("binding past keepIndex must be dropped")
	}
	if _, ok := g.Take(3); ok {
		t.Fatal("binding past keepIndex must be dropped")
	}
}

func TestForward_NoKnownLeaderDropsSilently(t *testing.T) {
	rt := &recordingTransport{}
	Forward(rt, "", raft.ClientRequest{CID: 1})
	if len(rt.sent) != 0 {
		t.Fatalf("expected no send with no known leader, got %v", rt.sent)
	}
}

func TestForward_SendsToLeader(t *testing.T) {
	rt := &recordingTransport{}
	req := raft.ClientRequest{CID: 1, Command: raft.Command("x")}
	Forward(rt, "leader1", req)
	if len(rt.sent) != 1 || rt.sent[0].to != "leader1" || !reflect.DeepEqual(rt.sent[0].msg, req) {
		t.Fatalf("unexpected sends: %v", rt.sent)
	}
}

func TestReply_SendsToOrigin(t *testing.T) {
	rt := &recordingTransport{}
	ref := raft.ClientRef{Origin: "client-node", CID: 42}
	Reply(rt, ref, "result")

	if len(rt.sent) != 1 || rt.sent[0].to != "client-node" {
		t.Fatalf("unexpected sends: %v", rt.sent)
	}
	got, ok := rt.sent[0].msg.(raft.ClientReply)
	if !ok || got.CID != 42 || got.Result != "result" {
		t.Fatalf("ClientReply = %+v", got)
	}
}
