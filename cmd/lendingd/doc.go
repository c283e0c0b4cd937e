// Package main runs lendingd, the HTTP service of the library lending engine.
//
// It wires the event store selected by configuration, the lending engine, the claim slip issuer,
// the due-soon reminder scanner and the HTTP API, and shuts them down on SIGINT or SIGTERM.
package main
