package buffer

import (
	"strings"
	"testing"
)

func TestAppendAndBytes(t *testing.T) {
	b := New()
	n := b.Append([]byte("hello"))
	if n != 5 {
		t.Fatalf("Append returned %d, want 5", n)
	}
	if string(b.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "hello")
	}
	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}
}

func TestConsumeClampsToCap(t *testing.T) {
	b := New()
	b.Append([]byte("hi"))
	b.Consume(100)
	if !b.IsEmpty() {
		t.Fatal("expected buffer to be empty after over-consuming")
	}
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestClearResetsCursors(t *testing.T) {
	b := New()
	b.Append([]byte("data"))
	b.Consume(2)
	b.Clear()
	if !b.IsEmpty() || b.Len() != 0 {
		t.Fatal("Clear() should reset pos and cap to zero")
	}
}

func TestCompactMovesUnconsumedBytesToFront(t *testing.T) {
	b := New()
	b.Append([]byte("abcdef"))
	b.Consume(3)
	b.Compact()
	if string(b.Bytes()) != "def" {
		t.Fatalf("Bytes() after Compact() = %q, want %q", b.Bytes(), "def")
	}
	if b.Space() != Size-3 {
		t.Fatalf("Space() after Compact() = %d, want %d", b.Space(), Size-3)
	}
}

func TestRefillCompactsThenReads(t *testing.T) {
	b := New()
	b.Append([]byte("xyz"))
	b.Consume(3) // fully consumed, should compact away to empty

	src := strings.NewReader("next request bytes")
	n, err := b.Refill(src)
	if err != nil {
		t.Fatalf("Refill returned error: %v", err)
	}
	if n != len("next request bytes") {
		t.Fatalf("Refill read %d bytes, want %d", n, len("next request bytes"))
	}
	if string(b.Bytes()) != "next request bytes" {
		t.Fatalf("Bytes() after Refill = %q", b.Bytes())
	}
}

func TestSpaceReflectsRemainingCapacity(t *testing.T) {
	b := New()
	if b.Space() != Size {
		t.Fatalf("Space() on empty buffer = %d, want %d", b.Space(), Size)
	}
	b.Append(make([]byte, 100))
	if b.Space() != Size-100 {
		t.Fatalf("Space() after appending 100 bytes = %d, want %d", b.Space(), Size-100)
	}
}

func TestAppendTruncatesAtCapacity(t *testing.T) {
	b := New()
	big := make([]byte, Size+10)
	n := b.Append(big)
	if n != Size {
		t.Fatalf("Append truncated to %d, want %d", n, Size)
	}
	if b.Space() != 0 {
		t.Fatalf("Space() after filling buffer = %d, want 0", b.Space())
	}
}
