package steward

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Admin issues one-shot topology operations against RabbitMQ through a
// ChannelProvider. It holds no state between calls; concurrent use is safe
// because every operation runs over its own scoped channel.
type Admin struct {
	ChannelProvider ChannelProvider
	log             *logrus.Logger
}

// NewAdmin builds you a new Admin with a default Warn-level logger.
func NewAdmin(provider ChannelProvider) (*Admin, error) {
	return NewAdminWithLogger(provider, nil)
}

// NewAdminWithLogger builds you a new Admin that traces through the provided logger.
func NewAdminWithLogger(provider ChannelProvider, log *logrus.Logger) (*Admin, error) {

	if provider == nil {
		return nil, ErrNilChannelProvider
	}

	if log == nil {
		log = newLogger(uint32(logrus.WarnLevel))
	}

	return &Admin{
		ChannelProvider: provider,
		log:             log,
	}, nil
}

func newLogger(logLevel uint32) *logrus.Logger {
	return &logrus.Logger{
		Out:   os.Stdout,
		Level: logrus.Level(logLevel),
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
	}
}

// BuildTopology declares everything in a TopologyConfig - stops on the first
// error unless ignoreErrors. Order: exchanges, queues, queue bindings,
// exchange bindings.
func (adm *Admin) BuildTopology(config *TopologyConfig, ignoreErrors bool) error {

	if config == nil {
		return ErrNilTopologyConfig
	}

	err := adm.BuildExchanges(config.Exchanges, ignoreErrors)
	if err != nil && !ignoreErrors {
		return err
	}

	err = adm.BuildQueues(config.Queues, ignoreErrors)
	if err != nil && !ignoreErrors {
		return err
	}

	err = adm.BindQueues(config.QueueBindings, ignoreErrors)
	if err != nil && !ignoreErrors {
		return err
	}

	err = adm.BindExchanges(config.ExchangeBindings, ignoreErrors)
	if err != nil && !ignoreErrors {
		return err
	}

	return nil
}

// BuildExchanges loops through and declares Exchanges - stops on the first error unless ignoreErrors.
func (adm *Admin) BuildExchanges(exchanges []*Exchange, ignoreErrors bool) error {

	for _, exchange := range exchanges {
		err := adm.DeclareExchange(exchange)
		if err != nil {
			if !ignoreErrors {
				return err
			}
			adm.log.Warnf("skipped an exchange declaration: %s", err)
		}
	}

	return nil
}

// BuildQueues loops through and declares Queues - stops on the first error unless ignoreErrors.
func (adm *Admin) BuildQueues(queues []*Queue, ignoreErrors bool) error {

	for _, queue := range queues {
		err := adm.DeclareQueue(queue)
		if err != nil {
			if !ignoreErrors {
				return err
			}
			adm.log.Warnf("skipped a queue declaration: %s", err)
		}
	}

	return nil
}

// BindQueues loops through and binds Queues to Exchanges - stops on the first error unless ignoreErrors.
func (adm *Admin) BindQueues(bindings []*QueueBinding, ignoreErrors bool) error {

	for _, binding := range bindings {
		err := adm.BindQueue(binding)
		if err != nil {
			if !ignoreErrors {
				return err
			}
			adm.log.Warnf("skipped a queue binding: %s", err)
		}
	}

	return nil
}

// BindExchanges loops through and binds Exchanges to Exchanges - stops on the first error unless ignoreErrors.
func (adm *Admin) BindExchanges(bindings []*ExchangeBinding, ignoreErrors bool) error {

	for _, binding := range bindings {
		err := adm.BindExchange(binding)
		if err != nil {
			if !ignoreErrors {
				return err
			}
			adm.log.Warnf("skipped an exchange binding: %s", err)
		}
	}

	return nil
}

// DeclareExchange declares the described Exchange, passively when PassiveDeclare is set.
func (adm *Admin) DeclareExchange(exchange *Exchange) error {

	if exchange == nil {
		return ErrNilExchange
	}

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		if exchange.PassiveDeclare {
			return channel.ExchangeDeclarePassive(
				exchange.Name,
				exchange.Type,
				exchange.Durable,
				exchange.AutoDelete,
				exchange.InternalOnly,
				exchange.NoWait,
				exchange.Args)
		}

		return channel.ExchangeDeclare(
			exchange.Name,
			exchange.Type,
			exchange.Durable,
			exchange.AutoDelete,
			exchange.InternalOnly,
			exchange.NoWait,
			exchange.Args)
	})
}

// DeleteExchange removes the exchange from the server.
func (adm *Admin) DeleteExchange(exchangeName string, ifUnused, noWait bool) error {

	if exchangeName == "" {
		return ErrNoExchangeName
	}

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		return channel.ExchangeDelete(exchangeName, ifUnused, noWait)
	})
}

// DeclareQueue declares the described Queue, passively when PassiveDeclare is set.
// The declared value is left untouched; quorum queues get the flags the quorum
// implementation can't honor rewritten on the wire call only.
func (adm *Admin) DeclareQueue(queue *Queue) error {

	if queue == nil {
		return ErrNilQueue
	}

	durable := queue.Durable
	autoDelete := queue.AutoDelete
	exclusive := queue.Exclusive
	noWait := queue.NoWait
	args := queue.Args

	// classic supports all properties, quorum does not
	if queue.Type == QueueTypeQuorum {
		durable = true
		autoDelete = false
		exclusive = false
		noWait = false

		if args == nil {
			args = amqp.Table{
				"x-queue-type": QueueTypeQuorum,
			}
		}
	}

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		if queue.PassiveDeclare {
			_, err := channel.QueueDeclarePassive(queue.Name, durable, autoDelete, exclusive, noWait, args)
			return err
		}

		_, err := channel.QueueDeclare(queue.Name, durable, autoDelete, exclusive, noWait, args)
		return err
	})
}

// DeclareServerNamedQueue declares a queue with a broker-generated name and
// returns it. Server-named queues are session scoped by convention:
// exclusive, auto-delete, not durable.
func (adm *Admin) DeclareServerNamedQueue(noWait bool) (*Queue, error) {

	var serverNamed *Queue
	err := adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		declared, err := channel.QueueDeclare("", false, true, true, noWait, nil)
		if err != nil {
			return err
		}

		serverNamed = &Queue{
			Name:       declared.Name,
			AutoDelete: true,
			Exclusive:  true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return serverNamed, nil
}

// DeleteQueue removes the queue from the server (and all bindings) and returns
// messages purged (count). The all-false flags are the plain delete; ifUnused
// and ifEmpty make the broker guard queue state.
func (adm *Admin) DeleteQueue(queueName string, ifUnused, ifEmpty, noWait bool) (int, error) {

	if queueName == "" {
		return 0, ErrNoQueueName
	}

	count := 0
	err := adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		var err error
		count, err = channel.QueueDelete(queueName, ifUnused, ifEmpty, noWait)
		return err
	})

	return count, err
}

// PurgeQueue removes all messages from the Queue that are not waiting to be
// Acknowledged and returns the count.
func (adm *Admin) PurgeQueue(queueName string, noWait bool) (int, error) {

	if queueName == "" {
		return 0, ErrNoQueueName
	}

	count := 0
	err := adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		var err error
		count, err = channel.QueuePurge(queueName, noWait)
		return err
	})

	return count, err
}

// PurgeQueues purges each Queue provided and returns the total message count.
func (adm *Admin) PurgeQueues(queueNames []string, noWait bool) (int, error) {

	if len(queueNames) == 0 {
		return 0, ErrNoQueueNames
	}

	total := 0
	for i := 0; i < len(queueNames); i++ {
		count, err := adm.PurgeQueue(queueNames[i], noWait)
		if err != nil {
			return total, err
		}

		total += count
	}

	return total, nil
}

// BindQueue binds an Exchange to a Queue.
func (adm *Admin) BindQueue(binding *QueueBinding) error {

	if binding == nil {
		return ErrNilBinding
	}

	adm.log.Debugf("binding queue %q to exchange %q with routing key %q",
		binding.QueueName, binding.ExchangeName, binding.RoutingKey)

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		return channel.QueueBind(
			binding.QueueName,
			binding.RoutingKey,
			binding.ExchangeName,
			binding.NoWait,
			binding.Args)
	})
}

// UnbindQueue removes the binding of a Queue to an Exchange. The wire call
// carries no no-wait flag, so the binding's NoWait is not forwarded.
func (adm *Admin) UnbindQueue(binding *QueueBinding) error {

	if binding == nil {
		return ErrNilBinding
	}

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		return channel.QueueUnbind(
			binding.QueueName,
			binding.RoutingKey,
			binding.ExchangeName,
			binding.Args)
	})
}

// BindExchange binds an exchange to a parent Exchange.
func (adm *Admin) BindExchange(binding *ExchangeBinding) error {

	if binding == nil {
		return ErrNilBinding
	}

	adm.log.Debugf("binding exchange %q to exchange %q with routing key %q",
		binding.ExchangeName, binding.ParentExchangeName, binding.RoutingKey)

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		return channel.ExchangeBind(
			binding.ExchangeName,
			binding.RoutingKey,
			binding.ParentExchangeName,
			binding.NoWait,
			binding.Args)
	})
}

// UnbindExchange removes the binding of an Exchange to a parent Exchange.
func (adm *Admin) UnbindExchange(binding *ExchangeBinding) error {

	if binding == nil {
		return ErrNilBinding
	}

	return adm.ChannelProvider.WithTransientChannel(func(channel Channel) error {
		return channel.ExchangeUnbind(
			binding.ExchangeName,
			binding.RoutingKey,
			binding.ParentExchangeName,
			binding.NoWait,
			binding.Args)
	})
}
