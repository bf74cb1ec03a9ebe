package server

import (
	"reflect"
	"testing"
)

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewSessionRegistry()
	a := newSession("alice", &nopConn{})
	if err := r.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup := newSession("alice", &nopConn{})
	if err := r.Register(dup); err != ErrNameTaken {
		t.Fatalf("Register duplicate = %v, want ErrNameTaken", err)
	}

	// The original session must remain intact.
	got, ok := r.Find("alice")
	if !ok || got != a {
		t.Fatal("duplicate registration displaced the original session")
	}
}

func TestNamesSortedSnapshot(t *testing.T) {
	r := NewSessionRegistry()
	for _, name := range []string{"carol", "alice", "bob"} {
		if err := r.Register(newSession(name, &nopConn{})); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}

	want := []string{"alice", "bob", "carol"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	// Mutating after the snapshot must not affect the returned slice.
	names := r.Names()
	r.Unregister("bob")
	if len(names) != 3 {
		t.Error("snapshot changed after Unregister")
	}
	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
}

func TestUnregisterAndFind(t *testing.T) {
	r := NewSessionRegistry()
	sess := newSession("alice", &nopConn{})
	if err := r.Register(sess); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, ok := r.Find("alice"); !ok {
		t.Fatal("Find after Register: not found")
	}

	r.Unregister("alice")
	if _, ok := r.Find("alice"); ok {
		t.Fatal("Find after Unregister: still found")
	}

	// Unregistering an absent name is a no-op.
	r.Unregister("alice")
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := NewSessionRegistry()
	b := NewBroadcaster(r)
	alice := newSession("alice", &nopConn{})
	bob := newSession("bob", &nopConn{})
	_ = r.Register(alice)
	_ = r.Register(bob)

	b.Broadcast("alice: hi", alice)
	if got := drain(alice); len(got) != 0 {
		t.Errorf("sender received own chat: %q", got)
	}
	wantLine(t, drain(bob), "alice: hi")
}

func TestBroadcastServerNoticeReachesSender(t *testing.T) {
	r := NewSessionRegistry()
	b := NewBroadcaster(r)
	alice := newSession("alice", &nopConn{})
	bob := newSession("bob", &nopConn{})
	_ = r.Register(alice)
	_ = r.Register(bob)

	b.Broadcast("SERVER: Goodbye, alice", alice)
	wantLine(t, drain(alice), "SERVER: Goodbye, alice")
	wantLine(t, drain(bob), "SERVER: Goodbye, alice")
}

func TestSendUserListReachesEveryone(t *testing.T) {
	r := NewSessionRegistry()
	b := NewBroadcaster(r)
	alice := newSession("alice", &nopConn{})
	bob := newSession("bob", &nopConn{})
	_ = r.Register(alice)
	_ = r.Register(bob)

	b.SendUserList()
	wantLine(t, drain(alice), "USERS:alice,bob")
	wantLine(t, drain(bob), "USERS:alice,bob")
}
