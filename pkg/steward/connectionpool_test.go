package steward_test

import (
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"

	"github.com/houseofcat/rabbitsteward/pkg/steward"
)

func TestNewConnectionPoolRequiresTimeouts(t *testing.T) {
	conf := *Seasoning.PoolConfig
	conf.Heartbeat = 0
	conf.ConnectionTimeout = 0

	pool, err := steward.NewConnectionPool(&conf)

	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestNewConnectionPoolRequiresConnectionCount(t *testing.T) {
	conf := *Seasoning.PoolConfig
	conf.MaxConnectionCount = 0

	pool, err := steward.NewConnectionPool(&conf)

	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestCreateConnectionPool(t *testing.T) {
	requireBroker(t)
	defer leaktest.Check(t)()

	pool, err := steward.NewConnectionPool(Seasoning.PoolConfig)
	assert.NoError(t, err)

	connHost, err := pool.GetConnection()
	assert.NoError(t, err)
	assert.NotNil(t, connHost)
	pool.ReturnConnection(connHost, false)

	pool.Shutdown()
}

func TestGetConnectionAfterKillingConnection(t *testing.T) {
	requireBroker(t)
	defer leaktest.Check(t)()

	pool, err := steward.NewConnectionPool(Seasoning.PoolConfig)
	assert.NoError(t, err)

	connHost, err := pool.GetConnection()
	assert.NoError(t, err)

	// Simulate a dead connection coming back around in the rotation.
	assert.NoError(t, connHost.Connection.Close())
	pool.ReturnConnection(connHost, true)

	for i := uint64(0); i < Seasoning.PoolConfig.MaxConnectionCount; i++ {
		connHost, err = pool.GetConnection()
		assert.NoError(t, err)
		assert.False(t, connHost.Connection.IsClosed())
		pool.ReturnConnection(connHost, false)
	}

	pool.Shutdown()
}

func TestGetTransientChannel(t *testing.T) {
	requireBroker(t)
	defer leaktest.Check(t)()

	pool, err := steward.NewConnectionPool(Seasoning.PoolConfig)
	assert.NoError(t, err)

	channel, err := pool.GetTransientChannel()
	assert.NoError(t, err)
	assert.NoError(t, channel.Close())

	pool.Shutdown()
}

func TestWithTransientChannel(t *testing.T) {
	requireBroker(t)

	queueName := steward.UniqueName("steward-test")

	err := Service.ChannelProvider.WithTransientChannel(func(channel steward.Channel) error {
		_, err := channel.QueueDeclare(queueName, false, true, false, false, nil)
		return err
	})
	assert.NoError(t, err)

	_, err = Service.DeleteQueue(queueName, false, false, false)
	assert.NoError(t, err)
}
