package core

import "github.com/pairpad/pairpad/internal/domain"

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []MemberSession
}

// RoomService is the core-facing API of a room. It owns the membership set
// and the shared buffer/language but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []domain.Member

	Join(id ConnID, ms MemberSession) bool
	Leave(id ConnID) (domain.Member, bool)

	// CloseIfEmpty seals the room against future joins when it has no
	// members. Once sealed, Join always returns false.
	CloseIfEmpty() bool

	SetCode(code string)
	SetLanguage(lang string)
	Snapshot() (code, language string, members []domain.Member)

	BroadcastExcept(from ConnID, data Frame) PublishResult
	BroadcastAll(data Frame) PublishResult
}
