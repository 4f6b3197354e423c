package statemachine

import "testing"

func TestKV_SetThenGet(t *testing.T) {
	kv := NewKV()

	res := kv.Apply(EncodeSet("k", "v")).(Result)
	if res.Err != nil || !res.Found || res.Value != "v" {
		t.Fatalf("Set result = %+v", res)
	}

	res = kv.Apply(EncodeGet("k")).(Result)
	if res.Err != nil || !res.Found || res.Value != "v" {
		t.Fatalf("Get result = %+v", res)
	}
}

func TestKV_GetMissing(t *testing.T) {
	kv := NewKV()
	res := kv.Apply(EncodeGet("missing")).(Result)
	if res.Found {
		t.Fatalf("expected Found=false, got %+v", res)
	}
}

func TestKV_Delete(t *testing.T) {
	kv := NewKV()
	kv.Apply(EncodeSet("k", "v"))

	res := kv.Apply(EncodeDelete("k")).(Result)
	if !res.Found {
		t.Fatalf("Delete of existing key should report Found=true, got %+v", res)
	}

	res = kv.Apply(EncodeGet("k")).(Result)
	if res.Found {
		t.Fatal("key should be gone after delete")
	}
}

func TestKV_MalformedCommand(t *testing.T) {
	kv := NewKV()
	res := kv.Apply([]byte{1, 2}).(Result)
	if res.Err == nil {
		t.Fatal("expected a decode error for a too-short command")
	}
}

func TestKV_Snapshot(t *testing.T) {
	kv := NewKV()
	kv.Apply(EncodeSet("a", "1"))
	kv.Apply(EncodeSet("b", "2"))

	snap := kv.Snapshot()
	if snap["a"] != "1" || snap["b"] != "2" || len(snap) != 2 {
		t.Fatalf("Snapshot() = %v", snap)
	}
}
