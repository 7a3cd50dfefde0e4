package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/domain"
)

type sessionEntry struct {
	RoomID  domain.RoomID
	Session core.MemberSession
}

// SessionRegistry tracks live connections and which room, if any, each one
// is bound to.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[core.ConnID]*sessionEntry
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[core.ConnID]*sessionEntry)}
}

func (r *SessionRegistry) BindSignal(id core.ConnID, sess core.MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{Session: sess}
	log.Info().Str("module", "app.sessions").Str("conn", string(id)).Msg("bound signal")
}

func (r *SessionRegistry) Session(id core.ConnID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Session, true
	}
	return nil, false
}

// BindRoom records the room a connection joined. Returns false when the
// connection is unknown or already bound; a connection binds at most once.
func (r *SessionRegistry) BindRoom(id core.ConnID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.RoomID != "" {
		return false
	}
	e.RoomID = roomID
	log.Info().Str("module", "app.sessions").Str("conn", string(id)).Str("room", string(roomID)).Msg("bound room")
	return true
}

func (r *SessionRegistry) RoomOf(id core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *SessionRegistry) Unbind(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	log.Info().Str("module", "app.sessions").Str("conn", string(id)).Msg("unbind session")
}
