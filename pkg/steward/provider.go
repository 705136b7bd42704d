package steward

import "github.com/streadway/amqp"

// Channel is the topology subset of amqp.Channel used by the Admin, one method
// per broker wire-protocol call. *amqp.Channel satisfies it as-is.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	ExchangeDeclarePassive(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	ExchangeDelete(name string, ifUnused, noWait bool) error
	ExchangeBind(destination, key, source string, noWait bool, args amqp.Table) error
	ExchangeUnbind(destination, key, source string, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueDelete(name string, ifUnused, ifEmpty, noWait bool) (int, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	QueueUnbind(name, key, exchange string, args amqp.Table) error
	QueuePurge(name string, noWait bool) (int, error)
}

var _ Channel = (*amqp.Channel)(nil)

// ChannelProvider supplies scoped channels for one-shot topology operations.
// The provider owns the channel lifecycle: a valid, connected channel is handed
// to the operation and closed after it returns, on every exit path.
type ChannelProvider interface {
	WithTransientChannel(operation func(Channel) error) error
}
