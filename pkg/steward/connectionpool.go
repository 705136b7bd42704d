package steward

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/streadway/amqp"
)

// ConnectionPool houses the pool of RabbitMQ connections and hands out
// transient channels for one-shot topology operations.
type ConnectionPool struct {
	Config               PoolConfig
	uri                  string
	heartbeatInterval    time.Duration
	connectionTimeout    time.Duration
	connections          *queue.Queue
	connectionID         uint64
	poolRWLock           *sync.RWMutex
	flaggedConnections   map[uint64]bool
	sleepOnErrorInterval time.Duration
	errorHandler         func(error)
	unhealthyHandler     func(error)
}

// NewConnectionPool creates hosting structure for the ConnectionPool.
func NewConnectionPool(config *PoolConfig) (*ConnectionPool, error) {
	return NewConnectionPoolWithHandlers(config, nil, nil)
}

// NewConnectionPoolWithErrorHandler creates hosting structure for the ConnectionPool with an error handler.
func NewConnectionPoolWithErrorHandler(config *PoolConfig, errorHandler func(error)) (*ConnectionPool, error) {
	return NewConnectionPoolWithHandlers(config, errorHandler, nil)
}

// NewConnectionPoolWithUnhealthyHandler creates hosting structure for the ConnectionPool with an unhealthy handler.
func NewConnectionPoolWithUnhealthyHandler(config *PoolConfig, unhealthyHandler func(error)) (*ConnectionPool, error) {
	return NewConnectionPoolWithHandlers(config, nil, unhealthyHandler)
}

// NewConnectionPoolWithHandlers creates hosting structure for the ConnectionPool with an error and/or unhealthy handler.
func NewConnectionPoolWithHandlers(config *PoolConfig, errorHandler func(error), unhealthyHandler func(error)) (*ConnectionPool, error) {
	if config.Heartbeat == 0 || config.ConnectionTimeout == 0 {
		return nil, errors.New("connectionpool heartbeat or connectiontimeout can't be 0")
	}

	if config.MaxConnectionCount == 0 {
		return nil, errors.New("connectionpool maxconnectioncount can't be 0")
	}

	cp := &ConnectionPool{
		Config:               *config,
		uri:                  config.URI,
		heartbeatInterval:    time.Duration(config.Heartbeat) * time.Second,
		connectionTimeout:    time.Duration(config.ConnectionTimeout) * time.Second,
		connections:          queue.New(int64(config.MaxConnectionCount)),
		poolRWLock:           &sync.RWMutex{},
		flaggedConnections:   make(map[uint64]bool),
		sleepOnErrorInterval: time.Duration(config.SleepOnErrorInterval) * time.Millisecond,
		errorHandler:         errorHandler,
		unhealthyHandler:     unhealthyHandler,
	}

	if err := cp.initializeConnections(); err != nil {
		cp.Shutdown() // release whatever did get dialed
		return nil, fmt.Errorf("initialization failed during connection creation: %w", err)
	}

	return cp, nil
}

func (cp *ConnectionPool) initializeConnections() error {

	cp.connectionID = 0
	cp.connections = queue.New(int64(cp.Config.MaxConnectionCount))

	for i := uint64(0); i < cp.Config.MaxConnectionCount; i++ {

		connectionHost, err := NewConnectionHost(
			cp.uri,
			cp.Config.ApplicationName+"-"+strconv.FormatUint(cp.connectionID, 10),
			cp.connectionID,
			cp.heartbeatInterval,
			cp.connectionTimeout,
			cp.Config.TLSConfig)

		if err != nil {
			cp.handleError(err)
			return err
		}

		if err = cp.connections.Put(connectionHost); err != nil {
			cp.handleError(err)
			return err
		}

		cp.connectionID++
	}

	return nil
}

// GetConnection pulls a connection from the pool for the next operation.
// Blocks indefinitely while the pool is empty. An unhealthy connection gets
// one reconnect attempt; when that fails the acquisition fails and the
// connection goes back to the pool flagged.
func (cp *ConnectionPool) GetConnection() (*ConnectionHost, error) {

	connHost, err := cp.getConnectionFromPool()
	if err != nil { // errors on bad data in the queue
		cp.handleError(err)
		return nil, err
	}

	if err = cp.verifyHealthyConnection(connHost); err != nil {
		cp.ReturnConnection(connHost, true)
		return nil, err
	}

	connHost.PauseOnFlowControl()

	return connHost, nil
}

func (cp *ConnectionPool) getConnectionFromPool() (*ConnectionHost, error) {

	// Pull from the queue.
	// Pauses here indefinitely if the queue is empty.
	structs, err := cp.connections.Get(1)
	if err != nil {
		return nil, err
	}

	connHost, ok := structs[0].(*ConnectionHost)
	if !ok {
		return nil, errors.New("invalid struct type found in ConnectionPool queue")
	}

	return connHost, nil
}

func (cp *ConnectionPool) verifyHealthyConnection(connHost *ConnectionHost) error {

	healthy := true
	select {
	case err := <-connHost.Errors:
		healthy = false
		if cp.unhealthyHandler != nil && err != nil {
			cp.unhealthyHandler(err)
		}
	default:
	}

	flagged := cp.isConnectionFlagged(connHost.ConnectionID)

	// Between these three states we do our best to determine that a connection is dead in the various lifecycles.
	if flagged || !healthy || connHost.Connection.IsClosed() {
		return cp.reconnectConnection(connHost)
	}

	return nil
}

// reconnectConnection makes a single reconnect attempt. Persistent outages
// surface to the caller instead of looping inside the pool.
func (cp *ConnectionPool) reconnectConnection(connHost *ConnectionHost) error {

	err := connHost.Connect() // remakes the notifier channels on success
	if err != nil {
		cp.handleError(err)
		return fmt.Errorf("%w: %w", ErrConnectionUnavailable, err)
	}

	cp.unflagConnection(connHost.ConnectionID)
	return nil
}

// ReturnConnection puts the connection back in the queue and flag it for error.
// This helps maintain a Round Robin on Connections and their resources.
func (cp *ConnectionPool) ReturnConnection(connHost *ConnectionHost, flag bool) {

	if flag {
		cp.flagConnection(connHost.ConnectionID)
	}

	_ = cp.connections.Put(connHost)
}

// GetTransientChannel opens a fresh channel on a pooled connection.
// The connection goes straight back to the pool; the caller owns closing the channel.
func (cp *ConnectionPool) GetTransientChannel() (*amqp.Channel, error) {

	connHost, err := cp.GetConnection()
	if err != nil {
		return nil, err
	}

	channel, err := connHost.Connection.Channel()
	if err != nil {
		cp.handleError(err)
		cp.ReturnConnection(connHost, true)
		return nil, err
	}

	cp.ReturnConnection(connHost, false)

	return channel, nil
}

// WithTransientChannel runs one operation over a transient channel and closes
// the channel on every exit path. This is the ChannelProvider contract.
func (cp *ConnectionPool) WithTransientChannel(operation func(Channel) error) error {

	channel, err := cp.GetTransientChannel()
	if err != nil {
		return err
	}
	defer channel.Close()

	return operation(channel)
}

// unflagConnection flags that connection as usable in the future.
func (cp *ConnectionPool) unflagConnection(connectionID uint64) {
	cp.poolRWLock.Lock()
	defer cp.poolRWLock.Unlock()
	cp.flaggedConnections[connectionID] = false
}

// flagConnection flags that connection as non-usable in the future.
func (cp *ConnectionPool) flagConnection(connectionID uint64) {
	cp.poolRWLock.Lock()
	defer cp.poolRWLock.Unlock()
	cp.flaggedConnections[connectionID] = true
}

// isConnectionFlagged checks to see if the connection has been flagged for removal.
func (cp *ConnectionPool) isConnectionFlagged(connectionID uint64) bool {
	cp.poolRWLock.RLock()
	defer cp.poolRWLock.RUnlock()
	if flagged, ok := cp.flaggedConnections[connectionID]; ok {
		return flagged
	}

	return false
}

// Shutdown closes all connections in the ConnectionPool and resets the Pool to pre-initialized state.
func (cp *ConnectionPool) Shutdown() {

	if cp == nil {
		return
	}

	wg := &sync.WaitGroup{}
	for !cp.connections.Empty() {
		items, _ := cp.connections.Get(cp.connections.Len())

		for _, item := range items {
			connectionHost, ok := item.(*ConnectionHost)
			if !ok {
				continue
			}

			wg.Add(1)

			// Connection.Close has been seen to panic during teardown.
			go func(host *ConnectionHost) {
				defer wg.Done()
				defer func() { _ = recover() }()

				if !host.Connection.IsClosed() {
					host.Connection.Close()
				}
			}(connectionHost)
		}
	}

	wg.Wait()

	cp.connections = queue.New(int64(cp.Config.MaxConnectionCount))
	cp.flaggedConnections = make(map[uint64]bool)
	cp.connectionID = 0
}

func (cp *ConnectionPool) handleError(err error) {
	if cp.errorHandler != nil {
		cp.errorHandler(err)
	}
	if cp.sleepOnErrorInterval > 0 {
		time.Sleep(cp.sleepOnErrorInterval)
	}
}
