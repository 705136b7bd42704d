package steward

import "github.com/streadway/amqp"

const (
	// ExchangeTypeDirect routes messages whose routing key matches the binding key exactly.
	ExchangeTypeDirect = "direct"

	// ExchangeTypeFanout routes messages to every bound queue, ignoring routing keys.
	ExchangeTypeFanout = "fanout"

	// ExchangeTypeTopic routes messages on dot-separated routing key patterns.
	ExchangeTypeTopic = "topic"

	// ExchangeTypeHeaders routes messages on header table matches instead of routing keys.
	ExchangeTypeHeaders = "headers"
)

const (
	// QueueTypeQuorum indicates a queue of type quorum.
	QueueTypeQuorum = "quorum"

	// QueueTypeClassic indicates a queue of type classic.
	QueueTypeClassic = "classic"
)

// Exchange describes an exchange to declare against the broker.
type Exchange struct {
	Name           string     `json:"Name" yaml:"Name"`
	Type           string     `json:"Type" yaml:"Type"` // "direct", "fanout", "topic", "headers"
	PassiveDeclare bool       `json:"PassiveDeclare" yaml:"PassiveDeclare"`
	Durable        bool       `json:"Durable" yaml:"Durable"`
	AutoDelete     bool       `json:"AutoDelete" yaml:"AutoDelete"`
	InternalOnly   bool       `json:"InternalOnly" yaml:"InternalOnly"`
	NoWait         bool       `json:"NoWait" yaml:"NoWait"`
	Args           amqp.Table `json:"Args,omitempty" yaml:"Args,omitempty"`
}

// Queue describes a queue to declare against the broker.
// An empty Name requests a broker-generated name.
type Queue struct {
	Name           string     `json:"Name" yaml:"Name"`
	PassiveDeclare bool       `json:"PassiveDeclare" yaml:"PassiveDeclare"`
	Durable        bool       `json:"Durable" yaml:"Durable"`
	AutoDelete     bool       `json:"AutoDelete" yaml:"AutoDelete"`
	Exclusive      bool       `json:"Exclusive" yaml:"Exclusive"`
	NoWait         bool       `json:"NoWait" yaml:"NoWait"`
	Type           string     `json:"Type" yaml:"Type"` // classic or quorum, quorum disregards exclusive/autodelete and enables durable on declare
	Args           amqp.Table `json:"Args,omitempty" yaml:"Args,omitempty"`
}

// QueueBinding describes a binding between a Queue and an Exchange.
type QueueBinding struct {
	QueueName    string     `json:"QueueName" yaml:"QueueName"`
	ExchangeName string     `json:"ExchangeName" yaml:"ExchangeName"`
	RoutingKey   string     `json:"RoutingKey" yaml:"RoutingKey"`
	NoWait       bool       `json:"NoWait" yaml:"NoWait"`
	Args         amqp.Table `json:"Args,omitempty" yaml:"Args,omitempty"`
}

// ExchangeBinding describes a binding between an Exchange and a parent Exchange.
type ExchangeBinding struct {
	ExchangeName       string     `json:"ExchangeName" yaml:"ExchangeName"`
	ParentExchangeName string     `json:"ParentExchangeName" yaml:"ParentExchangeName"`
	RoutingKey         string     `json:"RoutingKey" yaml:"RoutingKey"`
	NoWait             bool       `json:"NoWait" yaml:"NoWait"`
	Args               amqp.Table `json:"Args,omitempty" yaml:"Args,omitempty"`
}
