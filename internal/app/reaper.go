package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/domain"
)

// Reaper schedules deferred deletion of rooms that became empty. The check
// runs against live registry state at fire time: a room that gained members
// in the interim survives, and the stale timer does nothing.
type Reaper struct {
	rooms *RoomRegistry
	delay time.Duration

	mu     sync.Mutex
	timers map[domain.RoomID]*time.Timer
}

func NewReaper(rooms *RoomRegistry, delay time.Duration) *Reaper {
	return &Reaper{
		rooms:  rooms,
		delay:  delay,
		timers: make(map[domain.RoomID]*time.Timer),
	}
}

// Arm schedules a deletion attempt for the room. Re-arming replaces any
// timer already pending for the same id.
func (rp *Reaper) Arm(id domain.RoomID) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if t, ok := rp.timers[id]; ok {
		t.Stop()
	}
	rp.timers[id] = time.AfterFunc(rp.delay, func() { rp.fire(id) })
	log.Info().Str("module", "app.reaper").Str("room", string(id)).Dur("delay", rp.delay).Msg("armed")
}

func (rp *Reaper) fire(id domain.RoomID) {
	rp.mu.Lock()
	delete(rp.timers, id)
	rp.mu.Unlock()

	if !rp.rooms.DeleteIfEmpty(id) {
		log.Debug().Str("module", "app.reaper").Str("room", string(id)).Msg("skip: room gone or repopulated")
	}
}

// Stop cancels all pending timers. Used on shutdown and in tests.
func (rp *Reaper) Stop() {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	for id, t := range rp.timers {
		t.Stop()
		delete(rp.timers, id)
	}
}
