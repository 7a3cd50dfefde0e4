package collab

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/core"
)

func (ctl *CollabWSController) handleCodeChange(id core.ConnID, data []byte) {
	var p struct {
		Type string `json:"type"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("bad code payload")
		return
	}

	room, ok := ctl.Orch.CodeChange(id, p.Code)
	if !ok {
		return // not bound to a room, silently ignored
	}
	ctl.broadcastExcept(room, id, struct {
		Type   string `json:"type"`
		Code   string `json:"code"`
		UserID string `json:"userId"`
	}{Type: "code-update", Code: p.Code, UserID: string(id)})
}

func (ctl *CollabWSController) handleLanguageChange(id core.ConnID, data []byte) {
	var p struct {
		Type     string `json:"type"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("bad language payload")
		return
	}

	room, ok := ctl.Orch.LanguageChange(id, p.Language)
	if !ok {
		return
	}
	// The sender is included: its UI echo comes from this broadcast, not a
	// local optimistic update.
	ctl.broadcastAll(room, struct {
		Type     string `json:"type"`
		Language string `json:"language"`
	}{Type: "language-update", Language: p.Language})
}

func (ctl *CollabWSController) handleCursorUpdate(id core.ConnID, data []byte) {
	var p struct {
		Type      string          `json:"type"`
		Position  json.RawMessage `json:"position"`
		Selection json.RawMessage `json:"selection"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("bad cursor payload")
		return
	}

	room, member, ok := ctl.Orch.Bound(id)
	if !ok {
		return
	}
	// Ephemeral: not stored in room state, just relayed.
	ctl.broadcastExcept(room, id, struct {
		Type      string          `json:"type"`
		UserID    string          `json:"userId"`
		UserName  string          `json:"userName"`
		Position  json.RawMessage `json:"position"`
		Selection json.RawMessage `json:"selection"`
	}{
		Type:      "cursor-move",
		UserID:    string(id),
		UserName:  member.Name,
		Position:  p.Position,
		Selection: p.Selection,
	})
}
