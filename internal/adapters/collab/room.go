package collab

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/app"
	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/domain"
)

func (ctl *CollabWSController) handleJoinRoom(id core.ConnID, c *wsCollabConn, data []byte) {
	var p struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("bad join payload")
		ctl.sendError(c, "bad payload")
		return
	}

	res, err := ctl.Orch.Join(id, domain.RoomID(p.RoomID), p.UserName)
	if err != nil {
		log.Warn().Err(err).Str("module", "collab").Str("conn", string(id)).Str("room", p.RoomID).Msg("join rejected")
		switch {
		case errors.Is(err, app.ErrRoomNotFound):
			ctl.sendError(c, "Room not found")
		case errors.Is(err, app.ErrAlreadyJoined):
			ctl.sendError(c, "Already in a room")
		default:
			ctl.sendError(c, "join failed")
		}
		return
	}

	ctl.sendJSON(c, struct {
		Type     string          `json:"type"`
		Code     string          `json:"code"`
		Language string          `json:"language"`
		Users    []domain.Member `json:"users"`
	}{
		Type:     "room-state",
		Code:     res.Code,
		Language: res.Language,
		Users:    res.Members,
	})

	ctl.broadcastExcept(res.Room, id, struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Users []domain.Member `json:"users"`
	}{
		Type:  "user-joined",
		ID:    res.Member.ID,
		Name:  res.Member.Name,
		Users: res.Members,
	})
}

// disconnect runs once per connection when its read loop exits. The member
// is already out of the room when user-left fans out, so BroadcastAll hits
// exactly the remaining members.
func (ctl *CollabWSController) disconnect(id core.ConnID) {
	res, ok := ctl.Orch.OnDisconnect(id)
	if !ok {
		return
	}
	ctl.broadcastAll(res.Room, struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Users []domain.Member `json:"users"`
	}{
		Type:  "user-left",
		ID:    res.Member.ID,
		Name:  res.Member.Name,
		Users: res.Members,
	})
}

func (ctl *CollabWSController) sendError(c core.SignalConnection, msg string) {
	ctl.sendJSON(c, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{Type: "error", Message: msg})
}
