package steward

import (
	"errors"
	"fmt"
)

var (
	// ErrNilChannelProvider is returned when an Admin is constructed without a ChannelProvider.
	// you can check for this error with errors.Is
	ErrNilChannelProvider = errors.New("channel provider can't be nil")

	// ErrConnectionUnavailable is returned when a pooled connection stayed dead after a reconnect attempt.
	// you can check for this error with errors.Is
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrInvalidTopology is the base error for arguments rejected before anything reaches the broker.
	// you can check for the whole class with errors.Is
	ErrInvalidTopology = errors.New("invalid topology argument")

	// ErrNilExchange is returned when a declare receives a nil Exchange.
	ErrNilExchange = fmt.Errorf("%w: exchange can't be nil", ErrInvalidTopology)

	// ErrNilQueue is returned when a declare receives a nil Queue.
	ErrNilQueue = fmt.Errorf("%w: queue can't be nil", ErrInvalidTopology)

	// ErrNilBinding is returned when a bind/unbind receives a nil binding.
	ErrNilBinding = fmt.Errorf("%w: binding can't be nil", ErrInvalidTopology)

	// ErrNilTopologyConfig is returned when BuildTopology receives a nil TopologyConfig.
	ErrNilTopologyConfig = fmt.Errorf("%w: topology config can't be nil", ErrInvalidTopology)

	// ErrNoExchangeName is returned when an operation requires a non-empty exchange name.
	ErrNoExchangeName = fmt.Errorf("%w: exchange name can't be empty", ErrInvalidTopology)

	// ErrNoQueueName is returned when an operation requires a non-empty queue name.
	ErrNoQueueName = fmt.Errorf("%w: queue name can't be empty", ErrInvalidTopology)

	// ErrNoQueueNames is returned when a purge receives an empty list of queue names.
	ErrNoQueueNames = fmt.Errorf("%w: can't purge an empty array of queues", ErrInvalidTopology)
)
