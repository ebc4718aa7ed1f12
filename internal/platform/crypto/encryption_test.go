package crypto

import "testing"

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !s.Configured() {
		t.Fatal("expected sealer to be configured")
	}

	sealed, err := s.Seal("bearer-token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if sealed == "bearer-token" {
		t.Fatal("expected sealed value to differ from plain text")
	}
	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "bearer-token" {
		t.Fatalf("expected round trip, got %q", plain)
	}
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	s, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Open("c2hvcnQ"); err == nil {
		t.Fatal("expected short ciphertext to fail")
	}
	other, _ := New("fedcba9876543210fedcba9876543210")
	sealed, _ := other.Seal("value")
	if _, err := s.Open(sealed); err == nil {
		t.Fatal("expected foreign key to fail authentication")
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, _ := s.Seal("plain")
	if sealed != "plain" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}
