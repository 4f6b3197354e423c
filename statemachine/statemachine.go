// Package statemachine provides the raft.StateMachine interface contract
// plus a small example implementation: an in-memory key/value store whose
// commands are simple encoded Set/Get operations. The consensus core
// never inspects command contents; this package exists so the module is
// runnable end to end as an opaque executor.
package statemachine

import (
	"encoding/binary"
	"fmt"
	"sync"

	raft "github.com/CynthiaZ92/raft"
)

type opKind uint8

const (
	opSet opKind = iota
	opGet
	opDelete
)

// EncodeSet builds the Command for a Set operation.
func EncodeSet(key, value string) raft.Command {
	return encode(opSet, key, value)
}

// EncodeGet builds the Command for a Get operation.
func EncodeGet(key string) raft.Command {
	return encode(opGet, key, "")
}

// EncodeDelete builds the Command for a Delete operation.
func EncodeDelete(key string) raft.Command {
	return encode(opDelete, key, "")
}

func encode(kind opKind, key, value string) raft.Command {
	buf := make([]byte, 0, 1+4+len(key)+4+len(value))
	buf = append(buf, byte(kind))
	buf = appendLenPrefixed(buf, key)
	buf = appendLenPrefixed(buf, value)
	return raft.Command(buf)
}

func appendLenPrefixed(buf []byte, s string) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, s...)
	return buf
}

type decoded struct {
	kind  opKind
	key   string
	value string
}

func decode(cmd raft.Command) (decoded, error) {
	var d decoded
	if len(cmd) < 5 {
		return d, fmt.Errorf("statemachine: command too short: %d bytes", len(cmd))
	}
	d.kind = opKind(cmd[0])
	pos := 1

	keyLen := int(binary.BigEndian.Uint32(cmd[pos : pos+4]))
	pos += 4
	if pos+keyLen > len(cmd) {
		return d, fmt.Errorf("statemachine: truncated key")
	}
	d.key = string(cmd[pos : pos+keyLen])
	pos += keyLen

	if pos+4 > len(cmd) {
		return d, fmt.Errorf("statemachine: truncated value length")
	}
	valueLen := int(binary.BigEndian.Uint32(cmd[pos : pos+4]))
	pos += 4
	if pos+valueLen > len(cmd) {
		return d, fmt.Errorf("statemachine: truncated value")
	}
	d.value = string(cmd[pos : pos+valueLen])

	return d, nil
}

// Result is what KV.Apply returns.
type Result struct {
	Value string
	Found bool
	Err   error
}

// KV is a trivial in-memory key/value raft.StateMachine.
type KV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewKV returns an empty KV state machine.
func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

// Apply implements raft.StateMachine.
func (kv *KV) Apply(cmd raft.Command) raft.CommandResult {
	d, err := decode(cmd)
	if err != nil {
		return Result{Err: err}
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	switch d.kind {
	case opSet:
		kv.data[d.key] = d.value
		return Result{Value: d.value, Found: true}
	case opGet:
		v, ok := kv.data[d.key]
		return Result{Value: v, Found: ok}
	case opDelete:
		_, ok := kv.data[d.key]
		delete(kv.data, d.key)
		return Result{Found: ok}
	default:
		return Result{Err: fmt.Errorf("statemachine: unknown op kind %d", d.kind)}
	}
}

// Snapshot returns a point-in-time copy of the store, for tests and
// demos; it takes the same lock Apply uses.
func (kv *KV) Snapshot() map[string]string {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	out := make(map[string]string, len(kv.data))
	for k, v := range kv.data {
		out[k] = v
	}
	return out
}
