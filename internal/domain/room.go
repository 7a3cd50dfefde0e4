// Package domain contains entities without logic, just meta-data.
package domain

import "time"

type RoomID string

// Room is the shared session state behind one collaborative buffer.
// Code and Language are always set once the room is created; membership
// lives in core, not here.
type Room struct {
	ID        RoomID
	Code      string
	Language  string
	CreatedAt time.Time
}
