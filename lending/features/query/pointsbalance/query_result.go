package pointsbalance

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// PointsBalance is the current points balance of one member.
type PointsBalance struct {
	MemberID       core.MemberIDString
	Points         int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r PointsBalance) GetSequenceNumber() uint {
	return r.SequenceNumber
}
