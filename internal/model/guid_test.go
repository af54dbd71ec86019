package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCompressGUID(t *testing.T) {
	tests := []struct {
		name string
		id   uuid.UUID
		want string
	}{
		{"nil uuid", uuid.Nil, "0000000000000000000000"},
		{"all ones", uuid.UUID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "3$$$$$$$$$$$$$$$$$$$$$"},
		{"one", uuid.UUID{15: 1}, "0000000000000000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompressGUID(tt.id); got != tt.want {
				t.Errorf("CompressGUID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandGUID_RoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := uuid.New()
		s := CompressGUID(id)
		if len(s) != 22 {
			t.Fatalf("CompressGUID() length = %d, want 22", len(s))
		}
		back, err := ExpandGUID(s)
		if err != nil {
			t.Fatalf("ExpandGUID(%q) error = %v", s, err)
		}
		if back != id {
			t.Fatalf("ExpandGUID(CompressGUID(%s)) = %s", id, back)
		}
	}
}

func TestExpandGUID_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"too short", "0000", "has 4 characters"},
		{"bad character", "00000000000000000000-0", "invalid character"},
		{"first group overflow", "4000000000000000000000", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandGUID(tt.in)
			if err == nil {
				t.Fatalf("ExpandGUID(%q) expected error", tt.in)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ExpandGUID(%q) error = %v, want containing %q", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestNewGlobalID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewGlobalID()
		if len(id) != 22 {
			t.Fatalf("NewGlobalID() = %q, want 22 characters", id)
		}
		for _, c := range id {
			if !strings.ContainsRune(globalIDChars, c) {
				t.Fatalf("NewGlobalID() = %q contains %q", id, c)
			}
		}
		if seen[id] {
			t.Fatalf("NewGlobalID() repeated %q", id)
		}
		seen[id] = true
	}
}
