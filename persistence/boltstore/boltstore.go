// Package boltstore is an example durable raft.PersistentState backed by
// BoltDB. Spec §5 identifies the durability points - any mutation of
// currentTerm/votedFor, and any log append/truncate, must be flushed
// before the corresponding reply goes out - without mandating a format.
// This package is one concrete choice, not the mandated one.
package boltstore

import (
	"encoding/binary"
	"fmt"

	"github.com/boltdb/bolt"

	raft "github.com/CynthiaZ92/raft"
)

var (
	metaBucket     = []byte("raft-meta")
	currentTermKey = []byte("current-term")
	votedForKey    = []byte("voted-for")
)

// Store is a BoltDB-backed raft.PersistentState. Every Set call commits
// a single bolt transaction before returning, satisfying the
// "durable before reply" rule.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a BoltDB file at path and ensures
// its metadata bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying BoltDB file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetCurrentTerm implements raft.PersistentState.
func (s *Store) GetCurrentTerm() raft.Term {
	var term raft.Term
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(currentTermKey)
		if len(v) == 8 {
			term = raft.Term(binary.BigEndian.Uint64(v))
		}
		return nil
	})
	return term
}

// GetVotedFor implements raft.PersistentState.
func (s *Store) GetVotedFor() raft.NodeId {
	var votedFor raft.NodeId
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(votedForKey)
		votedFor = raft.NodeId(v)
		return nil
	})
	return votedFor
}

// SetCurrentTermAndVotedFor implements raft.PersistentState, persisting
// both fields in one transaction so a crash can never observe one
// updated without the other.
func (s *Store) SetCurrentTermAndVotedFor(term raft.Term, votedFor raft.NodeId) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		var termBuf [8]byte
		binary.BigEndian.PutUint64(termBuf[:], uint64(term))
		if err := b.Put(currentTermKey, termBuf[:]); err != nil {
			return err
		}
		return b.Put(votedForKey, []byte(votedFor))
	})
}
