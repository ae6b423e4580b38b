package canonical

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestMarshal_SortsKeysAndStripsWhitespace(t *testing.T) {
	var v any
	if err := json.Unmarshal([]byte(`{"b": [1, 2], "a": {"z": null, "y": true}}`), &v); err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"a":{"y":true,"z":null},"b":[1,2]}`
	if got != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestMarshal_NumbersPreserved(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"n": 0.9, "m": 10}`))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"m":10,"n":0.9}` {
		t.Errorf("Marshal() = %q", got)
	}
}

func TestMarshal_RejectsNonFinite(t *testing.T) {
	if _, err := Marshal(map[string]any{"x": math.NaN()}); err == nil {
		t.Error("Marshal(NaN) error = nil, want error")
	}
	if _, err := Marshal(map[string]any{"x": math.Inf(1)}); err == nil {
		t.Error("Marshal(Inf) error = nil, want error")
	}
}

func TestMarshal_RejectsNonJSONType(t *testing.T) {
	if _, err := Marshal(map[string]any{"x": make(chan int)}); err == nil {
		t.Error("Marshal(chan) error = nil, want error")
	}
}

func TestDigest_StableAcrossKeyOrder(t *testing.T) {
	var a, b any
	if err := json.Unmarshal([]byte(`{"id": "A.B.C", "message": "m", "location": "f:1"}`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"location": "f:1", "id": "A.B.C", "message": "m"}`), &b); err != nil {
		t.Fatal(err)
	}

	da, err := Digest(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatal(err)
	}
	if da != db {
		t.Errorf("digests differ across key order: %s vs %s", da, db)
	}
	if len(da) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(da))
	}
}

func TestDigest_SensitiveToValues(t *testing.T) {
	d1, err := Digest(map[string]any{"a": "x"})
	if err != nil {
		t.Fatal(err)
	}
	d2, err := Digest(map[string]any{"a": "y"})
	if err != nil {
		t.Fatal(err)
	}
	if d1 == d2 {
		t.Error("different values produced the same digest")
	}
}
