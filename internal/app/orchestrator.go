package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/domain"
)

var (
	// ErrRoomNotFound is surfaced to the joining connection only.
	ErrRoomNotFound = errors.New("room not found")
	// ErrAlreadyJoined rejects a second join-room from a bound connection.
	ErrAlreadyJoined = errors.New("already joined a room")
	// ErrUnknownConnection means the transport never registered the session.
	ErrUnknownConnection = errors.New("unknown connection")
)

// JoinResult carries the full room state returned to the joining connection.
type JoinResult struct {
	Room     core.RoomService
	Member   domain.Member
	Code     string
	Language string
	Members  []domain.Member
}

// LeaveResult describes a completed membership removal.
type LeaveResult struct {
	Room    core.RoomService
	Member  domain.Member
	Members []domain.Member
}

// Orchestrator maps inbound connection events onto room transitions.
// Each connection's events arrive sequentially from its read loop, so the
// bound/unbound checks below never race with that connection's own joins.
type Orchestrator struct {
	Rooms    *RoomRegistry
	Sessions *SessionRegistry
	Reaper   *Reaper
}

// Join binds the connection to the room and appends it to the member list.
// The display name falls back to one derived from the connection id when the
// client supplies none.
func (o *Orchestrator) Join(id core.ConnID, roomID domain.RoomID, requestedName string) (JoinResult, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	sess, ok := o.Sessions.Session(id)
	if !ok {
		return JoinResult{}, ErrUnknownConnection
	}
	if _, bound := o.Sessions.RoomOf(id); bound {
		return JoinResult{}, ErrAlreadyJoined
	}

	meta := sess.Meta()
	meta.ID = string(id)
	meta.Name = domain.ResolveName(requestedName, string(id))

	if !room.Join(id, sess) {
		// The reaper may have sealed and deleted the room between the
		// registry lookup and the join.
		if _, live := o.Rooms.Get(roomID); !live {
			return JoinResult{}, ErrRoomNotFound
		}
		return JoinResult{}, ErrAlreadyJoined
	}
	o.Sessions.BindRoom(id, roomID)

	code, language, members := room.Snapshot()
	log.Info().Str("module", "app.orch").Str("conn", string(id)).Str("room", string(roomID)).Str("name", meta.Name).Msg("joined")
	return JoinResult{Room: room, Member: *meta, Code: code, Language: language, Members: members}, nil
}

// CodeChange replaces the shared buffer wholesale. Returns the room for
// fan-out, or false when the connection is not bound. Unbound mutations are
// silent no-ops, not errors.
func (o *Orchestrator) CodeChange(id core.ConnID, code string) (core.RoomService, bool) {
	room, ok := o.boundRoom(id)
	if !ok {
		return nil, false
	}
	room.SetCode(code)
	return room, true
}

// LanguageChange replaces the language tag unconditionally. Same no-op guard.
func (o *Orchestrator) LanguageChange(id core.ConnID, lang string) (core.RoomService, bool) {
	room, ok := o.boundRoom(id)
	if !ok {
		return nil, false
	}
	room.SetLanguage(lang)
	return room, true
}

// Bound resolves the room and member meta for a bound connection. Cursor
// updates use this: they touch no room state.
func (o *Orchestrator) Bound(id core.ConnID) (core.RoomService, *domain.Member, bool) {
	room, ok := o.boundRoom(id)
	if !ok {
		return nil, nil, false
	}
	sess, ok := o.Sessions.Session(id)
	if !ok {
		return nil, nil, false
	}
	return room, sess.Meta(), true
}

// OnDisconnect removes the member from its room, arms the reaper when the
// room empties, and forgets the session. Safe for connections that never
// joined anything.
func (o *Orchestrator) OnDisconnect(id core.ConnID) (LeaveResult, bool) {
	defer o.Sessions.Unbind(id)

	room, ok := o.boundRoom(id)
	if !ok {
		return LeaveResult{}, false
	}
	member, removed := room.Leave(id)
	if !removed {
		return LeaveResult{}, false
	}
	if room.MemberCount() == 0 {
		o.Reaper.Arm(room.Room().ID)
	}
	return LeaveResult{Room: room, Member: member, Members: room.MembersSnapshot()}, true
}

func (o *Orchestrator) boundRoom(id core.ConnID) (core.RoomService, bool) {
	roomID, ok := o.Sessions.RoomOf(id)
	if !ok {
		return nil, false
	}
	return o.Rooms.Get(roomID)
}
