// Package pointsbalance implements the points balance query of one member.
//
// Members earn points for borrowing, returning on time and donating books; late returns cost the fine.
// The balance is derived from events and never stored.
package pointsbalance
