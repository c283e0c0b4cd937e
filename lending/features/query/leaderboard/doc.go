// Package leaderboard implements the ranking of members by points.
package leaderboard
