package steward

// Seasoning represents the configuration values.
type Seasoning struct {
	AdminConfig *AdminConfig `json:"AdminConfig" yaml:"AdminConfig"`
	PoolConfig  *PoolConfig  `json:"PoolConfig" yaml:"PoolConfig"`
}

// AdminConfig represents settings for topology administration and diagnostics.
type AdminConfig struct {
	LogLevel             uint32 `json:"LogLevel" yaml:"LogLevel"` // logrus level: 3 warn, 4 info, 5 debug
	IgnoreTopologyErrors bool   `json:"IgnoreTopologyErrors" yaml:"IgnoreTopologyErrors"`
}

// PoolConfig represents settings for creating/configuring pools.
type PoolConfig struct {
	ApplicationName      string     `json:"ApplicationName" yaml:"ApplicationName"`
	URI                  string     `json:"URI" yaml:"URI"`
	Heartbeat            uint32     `json:"Heartbeat" yaml:"Heartbeat"`
	ConnectionTimeout    uint32     `json:"ConnectionTimeout" yaml:"ConnectionTimeout"`
	SleepOnErrorInterval uint32     `json:"SleepOnErrorInterval" yaml:"SleepOnErrorInterval"` // sleep length on errors
	MaxConnectionCount   uint64     `json:"MaxConnectionCount" yaml:"MaxConnectionCount"`     // number of connections to create in the pool
	TLSConfig            *TLSConfig `json:"TLSConfig" yaml:"TLSConfig"`                       // TLS settings for connection with AMQPS.
}

// TLSConfig represents settings for configuring TLS.
type TLSConfig struct {
	EnableTLS         bool   `json:"EnableTLS" yaml:"EnableTLS"` // Use TLSConfig to create connections with AMQPS uri.
	PEMCertLocation   string `json:"PEMCertLocation" yaml:"PEMCertLocation"`
	LocalCertLocation string `json:"LocalCertLocation" yaml:"LocalCertLocation"`
	CertServerName    string `json:"CertServerName" yaml:"CertServerName"`
}

// TopologyConfig allows you to build simple topologies from a JSON or YAML file.
type TopologyConfig struct {
	Exchanges        []*Exchange        `json:"Exchanges" yaml:"Exchanges"`
	Queues           []*Queue           `json:"Queues" yaml:"Queues"`
	QueueBindings    []*QueueBinding    `json:"QueueBindings" yaml:"QueueBindings"`
	ExchangeBindings []*ExchangeBinding `json:"ExchangeBindings" yaml:"ExchangeBindings"`
}
