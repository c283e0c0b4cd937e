package leaderboard

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Entry is one ranked row of the leaderboard. Rank starts at 1.
type Entry struct {
	Rank     int
	MemberID core.MemberIDString
	Points   int
}

// Leaderboard lists members by points descending, ties by member ID.
type Leaderboard struct {
	Entries        []Entry
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r Leaderboard) GetSequenceNumber() uint {
	return r.SequenceNumber
}
