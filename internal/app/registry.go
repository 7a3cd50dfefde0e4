package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/domain"
	"github.com/pairpad/pairpad/internal/metrics"
)

const roomIDLen = 8

// DefaultCode seeds every new room's buffer.
const DefaultCode = "// Welcome to the coding interview!\n// Start writing your code here...\n\nfunction solution() {\n  // Your code here\n}\n"

// RoomRegistry owns the set of live rooms. Process lifetime, no persistence.
type RoomRegistry struct {
	mu          sync.RWMutex
	rooms       map[domain.RoomID]core.RoomService
	defaultLang string
}

func NewRoomRegistry(defaultLang string) *RoomRegistry {
	return &RoomRegistry{
		rooms:       make(map[domain.RoomID]core.RoomService),
		defaultLang: defaultLang,
	}
}

// newRoomID returns a short shareable id, the same slice of a v4 uuid the
// room links use.
func newRoomID() domain.RoomID {
	return domain.RoomID(uuid.NewString()[:roomIDLen])
}

// Create inserts a room with the default buffer and language. The room is
// lookup-able as soon as Create returns.
func (rr *RoomRegistry) Create() core.RoomService {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	id := newRoomID()
	for {
		if _, taken := rr.rooms[id]; !taken {
			break
		}
		id = newRoomID()
	}
	room := core.NewRoomService(&domain.Room{
		ID:        id,
		Code:      DefaultCode,
		Language:  rr.defaultLang,
		CreatedAt: time.Now(),
	})
	rr.rooms[id] = room
	metrics.RoomsCreated.Inc()
	metrics.RoomsLive.Inc()
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room created")
	return room
}

func (rr *RoomRegistry) Get(id domain.RoomID) (core.RoomService, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	room, ok := rr.rooms[id]
	return room, ok
}

// Delete is idempotent: removing an unknown id is a no-op.
func (rr *RoomRegistry) Delete(id domain.RoomID) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if _, ok := rr.rooms[id]; ok {
		delete(rr.rooms, id)
		metrics.RoomsLive.Dec()
		log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room deleted")
	}
}

// DeleteIfEmpty removes the room only when it still exists and still has no
// members at call time. The reaper uses this instead of a snapshot captured
// when its timer was armed. Sealing happens under the room's own lock, so a
// join racing this call either lands before the seal (the room survives) or
// finds the room sealed and fails.
func (rr *RoomRegistry) DeleteIfEmpty(id domain.RoomID) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	room, ok := rr.rooms[id]
	if !ok || !room.CloseIfEmpty() {
		return false
	}
	delete(rr.rooms, id)
	metrics.RoomsLive.Dec()
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room reaped")
	return true
}

func (rr *RoomRegistry) Count() int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return len(rr.rooms)
}
