package steward_test

import (
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"github.com/houseofcat/rabbitsteward/pkg/steward"
)

func TestNewServiceRequiresConfig(t *testing.T) {
	svc, err := steward.NewService(nil, nil)

	assert.Nil(t, svc)
	assert.Error(t, err)
}

func TestNewServiceWithConnectionPoolRequiresPool(t *testing.T) {
	svc, err := steward.NewServiceWithConnectionPool(nil, Seasoning, nil)

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, steward.ErrNilChannelProvider)
}

func TestBuildTopologyFromFileJSON(t *testing.T) {
	requireBroker(t)

	err := Service.BuildTopologyFromFile("testdata/testtopology.json")
	assert.NoError(t, err)
}

func TestBuildTopologyFromFileYAML(t *testing.T) {
	requireBroker(t)

	err := Service.BuildTopologyFromFile("testdata/testtopology.yml")
	assert.NoError(t, err)
}

func TestBuildTopologyFromFileUnknownExtension(t *testing.T) {
	requireBroker(t)

	err := Service.BuildTopologyFromFile("testdata/testtopology.toml")
	assert.Error(t, err)
}

func TestDeclareAndRemoveQueue(t *testing.T) {
	requireBroker(t)

	queueName := steward.UniqueName("steward-test")

	err := Service.DeclareQueue(&steward.Queue{Name: queueName, AutoDelete: true})
	assert.NoError(t, err)

	count, err := Service.PurgeQueue(queueName, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = Service.DeleteQueue(queueName, false, false, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestServerNamedQueue(t *testing.T) {
	requireBroker(t)

	// Exclusive queues belong to the declaring connection; the broker removes
	// them when the pool shuts down, so no cleanup here.
	queue, err := Service.DeclareServerNamedQueue(false)

	assert.NoError(t, err)
	assert.NotEmpty(t, queue.Name)
	assert.True(t, queue.Exclusive)
	assert.True(t, queue.AutoDelete)
	assert.False(t, queue.Durable)
}

func TestDeclareExchangeIdempotent(t *testing.T) {
	requireBroker(t)

	exchangeName := steward.UniqueName("steward-test-exchange")
	exchange := &steward.Exchange{Name: exchangeName, Type: steward.ExchangeTypeDirect}

	assert.NoError(t, Service.DeclareExchange(exchange))
	assert.NoError(t, Service.DeclareExchange(exchange)) // identical parameters are a broker no-op

	// Conflicting parameters fail at the broker and come back as amqp errors.
	err := Service.DeclareExchange(&steward.Exchange{Name: exchangeName, Type: steward.ExchangeTypeFanout})
	assert.Error(t, err)

	var ae *amqp.Error
	assert.ErrorAs(t, err, &ae)

	assert.NoError(t, Service.DeleteExchange(exchangeName, false, false))
}

func TestBindQueueMissingTargets(t *testing.T) {
	requireBroker(t)

	// Binding nonexistent topology must not silently pass.
	err := Service.BindQueue(&steward.QueueBinding{
		QueueName:    steward.UniqueName("steward-missing"),
		ExchangeName: steward.UniqueName("steward-missing"),
		RoutingKey:   "RoutingKey1",
	})
	assert.Error(t, err)
}

func TestDeclareBindPurgeScenario(t *testing.T) {
	requireBroker(t)

	exchangeName := steward.UniqueName("steward-scenario-ex")
	queueName := steward.UniqueName("steward-scenario-q")

	assert.NoError(t, Service.DeclareExchange(&steward.Exchange{Name: exchangeName, Type: steward.ExchangeTypeDirect}))
	assert.NoError(t, Service.DeclareQueue(&steward.Queue{Name: queueName}))

	binding := &steward.QueueBinding{QueueName: queueName, ExchangeName: exchangeName, RoutingKey: "RoutingKey1"}
	assert.NoError(t, Service.BindQueue(binding))

	count, err := Service.PurgeQueue(queueName, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.NoError(t, Service.UnbindQueue(binding))

	_, err = Service.DeleteQueue(queueName, false, false, false)
	assert.NoError(t, err)
	assert.NoError(t, Service.DeleteExchange(exchangeName, false, false))
}

func TestServiceShutdown(t *testing.T) {
	requireBroker(t)
	defer leaktest.Check(t)()

	svc, err := steward.NewService(Seasoning, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc.CentralErr())

	svc.Shutdown()
	svc.Shutdown() // second call is a no-op
}
