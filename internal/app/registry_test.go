package app

import (
	"testing"

	"github.com/pairpad/pairpad/internal/domain"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := NewRoomRegistry("javascript")

	room := reg.Create()
	id := room.Room().ID
	if len(id) != 8 {
		t.Errorf("room id %q has len %d, want 8", id, len(id))
	}

	got, ok := reg.Get(id)
	if !ok {
		t.Fatal("created room must be lookup-able immediately")
	}
	if got.MemberCount() != 0 {
		t.Errorf("fresh room userCount = %d, want 0", got.MemberCount())
	}

	code, language, _ := got.Snapshot()
	if code != DefaultCode {
		t.Errorf("fresh room code = %q, want default", code)
	}
	if language != "javascript" {
		t.Errorf("fresh room language = %q, want javascript", language)
	}
	if got.Room().CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	if _, ok := reg.Get("missing1"); ok {
		t.Error("expected not found")
	}
}

func TestRegistry_DeleteIdempotent(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	room := reg.Create()
	id := room.Room().ID

	reg.Delete(id)
	if reg.Count() != 0 {
		t.Errorf("count = %d, want 0", reg.Count())
	}
	// Second delete is a no-op, not an error.
	reg.Delete(id)
	reg.Delete("never-was")
}

func TestRegistry_Count(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	if reg.Count() != 0 {
		t.Errorf("count = %d, want 0", reg.Count())
	}
	a := reg.Create()
	reg.Create()
	if reg.Count() != 2 {
		t.Errorf("count = %d, want 2", reg.Count())
	}
	reg.Delete(a.Room().ID)
	if reg.Count() != 1 {
		t.Errorf("count = %d, want 1", reg.Count())
	}
}

func TestRegistry_DistinctIDs(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	seen := make(map[domain.RoomID]bool)
	for i := 0; i < 50; i++ {
		id := reg.Create().Room().ID
		if seen[id] {
			t.Fatalf("duplicate room id %q", id)
		}
		seen[id] = true
	}
}

func TestRegistry_DeleteIfEmpty(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	room := reg.Create()
	id := room.Room().ID

	sess := newFakeSession("conn-1", "Alice", 4)
	room.Join("conn-1", sess)

	if reg.DeleteIfEmpty(id) {
		t.Error("must not delete a room with members")
	}
	if _, ok := reg.Get(id); !ok {
		t.Fatal("room disappeared")
	}

	room.Leave("conn-1")
	if !reg.DeleteIfEmpty(id) {
		t.Error("empty room should be deleted")
	}
	if reg.DeleteIfEmpty(id) {
		t.Error("second DeleteIfEmpty should report false")
	}
}

func TestRegistry_DeleteIfEmptySealsAgainstLateJoin(t *testing.T) {
	reg := NewRoomRegistry("javascript")
	id := reg.Create().Room().ID

	// A joiner that resolved the room just before the reaper fired still
	// holds a reference after the delete.
	stale, ok := reg.Get(id)
	if !ok {
		t.Fatal("room should exist before the reap")
	}

	if !reg.DeleteIfEmpty(id) {
		t.Fatal("empty room should be deleted")
	}
	if stale.Join("conn-1", newFakeSession("conn-1", "Alice", 4)) {
		t.Error("join through a stale reference must fail after the reap")
	}
	if stale.MemberCount() != 0 {
		t.Errorf("member count = %d, want 0 after refused join", stale.MemberCount())
	}
}
