package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/domain"
)

// roomImpl is a threadsafe in-memory room. Members keep join order.
// It never closes adapter-owned resources.
type roomImpl struct {
	room   *domain.Room
	mu     sync.RWMutex
	order  []ConnID
	byID   map[ConnID]MemberSession
	closed bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room: room,
		byID: make(map[ConnID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Join appends the member unless the connection is already present or the
// room has been sealed by the reaper.
func (r *roomImpl) Join(id ConnID, ms MemberSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if _, ok := r.byID[id]; ok {
		return false
	}
	r.byID[id] = ms
	r.order = append(r.order, id)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(id)).Str("name", ms.Meta().Name).Msg("member joined")
	return true
}

// Leave removes the member and reports its meta. No-op for unknown ids.
func (r *roomImpl) Leave(id ConnID) (domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.byID[id]
	if !ok {
		return domain.Member{}, false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(id)).Msg("member left")
	return *ms.Meta(), true
}

// CloseIfEmpty seals the room under its own lock so the emptiness check and
// the seal are atomic with respect to concurrent joins.
func (r *roomImpl) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.byID) > 0 {
		return false
	}
	r.closed = true
	return true
}

// SetCode replaces the buffer wholesale. Last writer wins.
func (r *roomImpl) SetCode(code string) {
	r.mu.Lock()
	r.room.Code = code
	r.mu.Unlock()
}

func (r *roomImpl) SetLanguage(lang string) {
	r.mu.Lock()
	r.room.Language = lang
	r.mu.Unlock()
}

// Snapshot returns buffer, language and members in one consistent read.
func (r *roomImpl) Snapshot() (string, string, []domain.Member) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.room.Code, r.room.Language, r.membersLocked()
}

func (r *roomImpl) MembersSnapshot() []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked()
}

func (r *roomImpl) membersLocked() []domain.Member {
	out := make([]domain.Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id].Meta())
	}
	return out
}

func (r *roomImpl) BroadcastExcept(from ConnID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.publishLocked(&from, data)
}

func (r *roomImpl) BroadcastAll(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.publishLocked(nil, data)
}

// publishLocked fans out in join order. Delivery is at-most-once: a full or
// closed transport drops the frame for that member only.
func (r *roomImpl) publishLocked(skip *ConnID, data Frame) PublishResult {
	res := PublishResult{}
	for _, id := range r.order {
		if skip != nil && id == *skip {
			continue
		}
		ms := r.byID[id]
		if err := ms.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, ms)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
