// Package fixture provides arrange and assert helpers shared by the lending feature tests.
// All helpers run against the in-memory event store.
package fixture
