package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pairpad/pairpad/internal/app"
	"github.com/pairpad/pairpad/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:            "release",
		ReadLimit:       1048576,
		PingPeriod:      50 * time.Second,
		WriteTimeout:    5 * time.Second,
		SendBuffer:      64,
		RoomTTL:         time.Hour,
		DefaultLanguage: "javascript",
		CreateRatePerIP: 100,
		Secret:          "test-secret",
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *app.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rooms := app.NewRoomRegistry(cfg.DefaultLanguage)
	reaper := app.NewReaper(rooms, cfg.RoomTTL)
	t.Cleanup(reaper.Stop)

	orch := &app.Orchestrator{
		Rooms:    rooms,
		Sessions: app.NewSessionRegistry(),
		Reaper:   reaper,
	}
	return SetupRouter(context.Background(), cfg, orch), orch
}

func doJSON(t *testing.T, r *gin.Engine, method, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}
	return w.Code, body
}

func TestRouter_CreateRoom(t *testing.T) {
	r, orch := newTestRouter(t, testConfig())

	code, body := doJSON(t, r, http.MethodPost, "/api/rooms")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	roomID, _ := body["roomId"].(string)
	if len(roomID) != 8 {
		t.Errorf("roomId = %q, want 8 chars", roomID)
	}
	if orch.Rooms.Count() != 1 {
		t.Errorf("registry count = %d, want 1", orch.Rooms.Count())
	}
}

func TestRouter_GetRoom(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	_, created := doJSON(t, r, http.MethodPost, "/api/rooms")
	roomID := created["roomId"].(string)

	code, body := doJSON(t, r, http.MethodGet, "/api/rooms/"+roomID)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["id"] != roomID {
		t.Errorf("id = %v, want %q", body["id"], roomID)
	}
	if body["language"] != "javascript" {
		t.Errorf("language = %v, want javascript", body["language"])
	}
	if !strings.Contains(body["code"].(string), "Welcome") {
		t.Errorf("code = %v, want the welcome template", body["code"])
	}
	if body["userCount"].(float64) != 0 {
		t.Errorf("userCount = %v, want 0", body["userCount"])
	}
}

func TestRouter_GetRoomNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	code, body := doJSON(t, r, http.MethodGet, "/api/rooms/missing1")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if body["error"] != "Room not found" {
		t.Errorf("error = %v, want 'Room not found'", body["error"])
	}
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	code, body := doJSON(t, r, http.MethodGet, "/api/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["rooms"].(float64) != 0 {
		t.Errorf("rooms = %v, want 0", body["rooms"])
	}

	doJSON(t, r, http.MethodPost, "/api/rooms")
	_, body = doJSON(t, r, http.MethodGet, "/api/health")
	if body["rooms"].(float64) != 1 {
		t.Errorf("rooms = %v, want 1", body["rooms"])
	}
}

func TestRouter_CreateRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.CreateRatePerIP = 1 // burst 2
	r, _ := newTestRouter(t, cfg)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		code, _ := doJSON(t, r, http.MethodPost, "/api/rooms")
		statuses = append(statuses, code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two creates should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third create = %d, want 429", statuses[2])
	}
}
