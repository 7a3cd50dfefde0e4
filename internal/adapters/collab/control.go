package collab

func (ctl *CollabWSController) handlePing(c *wsCollabConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}
