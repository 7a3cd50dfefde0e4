package domain

import "unicode/utf8"

const (
	// MaxNameLen caps display names, counted in runes.
	MaxNameLen      = 36
	fallbackIDSlice = 4
)

// Member is a connection's participation record within a room.
// ID is the connection id assigned by the transport adapter.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveName picks the display name for a joining connection: the requested
// name when present (capped at MaxNameLen runes), otherwise a fallback derived
// from the connection id. Truncation never splits a rune.
func ResolveName(requested, connID string) string {
	if requested == "" {
		return FallbackName(connID)
	}
	if utf8.RuneCountInString(requested) > MaxNameLen {
		return string([]rune(requested)[:MaxNameLen])
	}
	return requested
}

// FallbackName is deterministic for a given connection id.
func FallbackName(connID string) string {
	s := connID
	if len(s) > fallbackIDSlice {
		s = s[:fallbackIDSlice]
	}
	return "User-" + s
}
