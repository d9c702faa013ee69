package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crudapp/crudapp/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotConnected is returned for collection access before a successful Connect.
var ErrNotConnected = errors.New("database not connected")

// State is the connection lifecycle of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	}
	return "disconnected"
}

// Client owns the MongoDB connection used by the item repository.
// It is created once at start-up and handed to whatever needs a collection;
// there is no package-level connection.
type Client struct {
	uri      string
	database string
	timeout  time.Duration

	mu     sync.RWMutex
	client *mongo.Client
	state  State
	err    error
}

// NewClient prepares a client for the given URI and database. No I/O happens until Connect.
func NewClient(uri, database string, timeout time.Duration) *Client {
	return &Client{uri: uri, database: database, timeout: timeout}
}

// Connect makes a single connection attempt. A failure is logged and recorded
// in the client state; it is not retried.
func (c *Client) Connect(ctx context.Context) error {
	mc, err := ConnectMongo(ctx, c.uri, c.timeout)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.err = err
		logger.Errorf("mongodb connection failed (database=%s): %v", c.database, err)
		return err
	}
	c.client = mc
	c.state = StateConnected
	c.err = nil
	logger.Infof("mongodb connected (database=%s)", c.database)
	return nil
}

// State reports the current lifecycle state and the last connection error, if any.
func (c *Client) State() (State, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.err
}

// Connected reports whether Connect succeeded and Disconnect has not been called.
func (c *Client) Connected() bool {
	s, _ := c.State()
	return s == StateConnected
}

// Collection returns the named collection, or ErrNotConnected.
func (c *Client) Collection(name string) (*mongo.Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateConnected || c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client.Database(c.database).Collection(name), nil
}

// Disconnect closes the connection, if any, and resets the state.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.state = StateDisconnected
	return err
}
