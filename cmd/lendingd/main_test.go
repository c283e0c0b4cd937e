package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-engine/lending/notifier"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell/config"
)

func givenLogger() *oteladapters.SlogBridgeLogger {
	return oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewTextHandler(io.Discard, nil))
}

func Test_openEventStore_Memory(t *testing.T) {
	// arrange
	cfg := config.Config{Store: config.StoreMemory, OperationTimeout: time.Second}

	// act
	es, closeStore, err := openEventStore(context.Background(), cfg, givenLogger(), nil, nil)

	// assert
	require.NoError(t, err)
	defer closeStore()

	events, maxSequenceNumber, err := es.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	assert.Empty(t, events, "Should start with an empty log")
	assert.Zero(t, maxSequenceNumber)
}

func Test_openEventStore_UnknownAdapter(t *testing.T) {
	// arrange
	cfg := config.Config{Store: config.StorePostgres, DBAdapter: "odbc"}

	// act
	_, _, err := openEventStore(context.Background(), cfg, givenLogger(), nil, nil)

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_openPublisher_WithoutAMQPLogsReminders(t *testing.T) {
	// act
	publisher, closePublisher, err := openPublisher(config.Config{}, givenLogger())

	// assert
	require.NoError(t, err)
	defer closePublisher()

	assert.IsType(t, notifier.LogPublisher{}, publisher)
}
