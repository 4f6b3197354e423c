// Command cluster runs an entire Raft cluster in one process: every
// peer is a consensus.Node wired to the others through an in-process
// transport.Registry. The transport interface is deliberately opaque to
// the consensus core, so this picks in-process mailboxes, not TCP/RPC,
// as its one concrete choice - useful for running a cluster locally
// before anything touches a real network.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/bootstrap"
	"github.com/CynthiaZ92/raft/consensus"
	"github.com/CynthiaZ92/raft/persistence/boltstore"
	"github.com/CynthiaZ92/raft/statemachine"
	"github.com/CynthiaZ92/raft/transport"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a cluster config YAML file (defaults to a 3-node in-process cluster)")
		dataDir    = flag.String("data", "./data", "directory for each peer's BoltDB persistent state")
		inboxSize  = flag.Int("inbox-size", 64, "per-peer mailbox buffer size")
	)
	flag.Parse()

	cfg, err := loadOrDefaultConfig(*configPath)
	if err != nil {
		log.Fatalf("cluster: %v", err)
	}

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("cluster: create data dir: %v", err)
	}

	nodeIds := cfg.NodeIds()
	registry := transport.NewRegistry()
	nodes := make(map[raft.NodeId]*consensus.Node, len(nodeIds))
	stores := make([]*boltstore.Store, 0, len(nodeIds))

	for _, id := range nodeIds {
		inbox := registry.Register(id, *inboxSize)

		store, err := boltstore.Open(filepath.Join(*dataDir, fmt.Sprintf("%s.bolt", id)))
		if err != nil {
			log.Fatalf("cluster: open persistent state for %s: %v", id, err)
		}
		stores = append(stores, store)

		logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
		node := consensus.NewNode(id, consensus.Deps{
			Persistent:        store,
			Transport:         registry.Mailbox(id),
			StateMachine:      statemachine.NewKV(),
			Logger:            logger,
			Inbox:             inbox,
			ElectionTimeout:   cfg.ElectionTimeout(),
			HeartbeatInterval: cfg.HeartbeatInterval(),
		})
		nodes[id] = node
	}

	init := raft.Init{Nodes: nodeIds}
	for _, id := range nodeIds {
		registry.Mailbox(id).SendAsync(id, init)
	}

	log.Printf("cluster: %d peers running", len(nodeIds))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("cluster: shutting down")
	for _, node := range nodes {
		node.StopAsync()
	}
	// Give each Node's goroutine a moment to observe the stop signal and
	// release its BoltDB handle before this process closes it under it.
	time.Sleep(50 * time.Millisecond)
	for _, store := range stores {
		_ = store.Close()
	}
}

func loadOrDefaultConfig(path string) (*bootstrap.Config, error) {
	if path != "" {
		return bootstrap.Load(path)
	}
	return &bootstrap.Config{
		Peers: []bootstrap.PeerConfig{{Id: "node-1"}, {Id: "node-2"}, {Id: "node-3"}},
	}, nil
}
