package util

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewID_MonotonicWithinMillisecond(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	prev := NewID(at)
	for i := 0; i < 100; i++ {
		id := NewID(at)
		if id <= prev {
			t.Fatalf("id %s not after %s", id, prev)
		}
		prev = id
	}

	parsed, err := ulid.Parse(prev)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Time() != uint64(at.UnixMilli()) {
		t.Fatalf("timestamp = %d, want %d", parsed.Time(), at.UnixMilli())
	}
}
