package utils

import (
	"testing"
	"time"
)

func TestNewULIDFromTimestampIsUnique(t *testing.T) {
	u := New()
	now := time.Now()

	a, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	b, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if len(a) != 26 {
		t.Fatalf("expected 26 char ulid, got %d", len(a))
	}
}

func TestHashContentIgnoresSurroundingWhitespace(t *testing.T) {
	u := New()
	if u.HashContent("opening hours 9-5") != u.HashContent("  opening hours 9-5\n") {
		t.Fatal("expected equal hashes")
	}
	if u.HashContent("a") == u.HashContent("b") {
		t.Fatal("expected different hashes")
	}
	if got := len(u.HashContent("x")); got != 64 {
		t.Fatalf("expected 64 hex chars, got %d", got)
	}
}

func TestTruncate(t *testing.T) {
	u := New()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := u.Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
