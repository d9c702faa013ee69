package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientNotConnectedBeforeConnect(t *testing.T) {
	c := NewClient("mongodb://127.0.0.1:1", "crud_test", 200*time.Millisecond)

	state, err := c.State()
	require.Equal(t, StateDisconnected, state)
	require.NoError(t, err)
	require.False(t, c.Connected())

	col, err := c.Collection("items")
	require.Nil(t, col)
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, c.Disconnect(context.Background()))
}

func TestClientConnectFailureIsRecorded(t *testing.T) {
	// nothing listens on port 1; the ping times out and the failure is kept, not retried
	c := NewClient("mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100", "crud_test", 300*time.Millisecond)

	err := c.Connect(context.Background())
	require.Error(t, err)

	state, lastErr := c.State()
	require.Equal(t, StateFailed, state)
	require.Error(t, lastErr)
	require.Equal(t, "failed", state.String())

	_, err = c.Collection("items")
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestConnectMongoInvalidURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "not-a-uri", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo connect")
}
