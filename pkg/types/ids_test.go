package types

import "testing"

func TestPeerID(t *testing.T) {
	p := PeerID("127.0.0.1:40123")
	if p.String() != "127.0.0.1:40123" {
		t.Errorf("String() = %q", p.String())
	}
	if p.ShortString() != "127.0.0." {
		t.Errorf("ShortString() = %q", p.ShortString())
	}
	if p.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty")
	}
	if !PeerID("").IsEmpty() {
		t.Error("IsEmpty() = false for empty")
	}
	if PeerID("abc").ShortString() != "abc" {
		t.Errorf("ShortString() = %q", PeerID("abc").ShortString())
	}
}

func TestNewConnID(t *testing.T) {
	a := NewConnID()
	b := NewConnID()
	if a == b {
		t.Errorf("NewConnID() returned duplicate id %q", a)
	}
	if len(a.String()) != 36 {
		t.Errorf("len(ConnID) = %d, want 36", len(a.String()))
	}
	if len(a.ShortString()) != 8 {
		t.Errorf("len(ShortString()) = %d, want 8", len(a.ShortString()))
	}
}
