package steward

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Service bundles a ConnectionPool and an Admin behind one Seasoning, with a
// central error stream for pool diagnostics.
type Service struct {
	Config *Seasoning

	*Admin
	pool *ConnectionPool
	log  *logrus.Logger

	shutdownSignal chan struct{}
	centralErr     chan error
}

// NewService creates everything you need for RabbitMQ topology administration.
// A nil processError installs the default drain that logs at Error level.
func NewService(config *Seasoning, processError func(error)) (*Service, error) {

	if config == nil || config.PoolConfig == nil {
		return nil, errors.New("config or poolconfig can't be nil")
	}

	svc := &Service{
		Config:         config,
		log:            newLogger(serviceLogLevel(config)),
		shutdownSignal: make(chan struct{}),
		centralErr:     make(chan error, 1000),
	}

	pool, err := NewConnectionPoolWithHandlers(config.PoolConfig, svc.reportError, svc.reportError)
	if err != nil {
		return nil, err
	}

	return svc.start(pool, processError)
}

// NewServiceWithConnectionPool creates a Service on top of a caller-owned ConnectionPool.
// The pool's own handlers stay in place; Shutdown still closes the pool.
func NewServiceWithConnectionPool(pool *ConnectionPool, config *Seasoning, processError func(error)) (*Service, error) {

	if pool == nil {
		return nil, ErrNilChannelProvider
	}
	if config == nil {
		return nil, errors.New("config can't be nil")
	}

	svc := &Service{
		Config:         config,
		log:            newLogger(serviceLogLevel(config)),
		shutdownSignal: make(chan struct{}),
		centralErr:     make(chan error, 1000),
	}

	return svc.start(pool, processError)
}

func (svc *Service) start(pool *ConnectionPool, processError func(error)) (*Service, error) {

	svc.pool = pool

	admin, err := NewAdminWithLogger(pool, svc.log)
	if err != nil {
		return nil, err
	}
	svc.Admin = admin

	// Monitors all errors
	if processError != nil {
		go svc.invokeProcessError(processError)
	} else {
		go svc.processErrors()
	}

	return svc, nil
}

func serviceLogLevel(config *Seasoning) uint32 {
	if config.AdminConfig != nil && config.AdminConfig.LogLevel > 0 {
		return config.AdminConfig.LogLevel
	}
	return uint32(logrus.WarnLevel)
}

// BuildTopologyFromFile loads a TopologyConfig from a .json, .yml or .yaml
// file and declares it, honoring AdminConfig.IgnoreTopologyErrors.
func (svc *Service) BuildTopologyFromFile(fileNamePath string) error {

	var topology *TopologyConfig
	var err error

	switch strings.ToLower(filepath.Ext(fileNamePath)) {
	case ".json":
		topology, err = ConvertJSONFileToTopologyConfig(fileNamePath)
	case ".yml", ".yaml":
		topology, err = ConvertYAMLFileToTopologyConfig(fileNamePath)
	default:
		return fmt.Errorf("unsupported topology file extension on %q", fileNamePath)
	}
	if err != nil {
		return err
	}

	return svc.BuildTopology(topology, svc.ignoreTopologyErrors())
}

func (svc *Service) ignoreTopologyErrors() bool {
	return svc.Config.AdminConfig != nil && svc.Config.AdminConfig.IgnoreTopologyErrors
}

// CentralErr yields all the internal errs for sub-processes.
func (svc *Service) CentralErr() <-chan error {
	return svc.centralErr
}

// Shutdown stops the service and shuts down the ConnectionPool. Safe to call twice.
func (svc *Service) Shutdown() {

	if svc.isShutdown() {
		return
	}

	close(svc.shutdownSignal)
	svc.pool.Shutdown()
}

func (svc *Service) reportError(err error) {
	select {
	case svc.centralErr <- err:
	default: // drop rather than block a pool caller when the buffer is full
	}
}

func (svc *Service) invokeProcessError(processError func(error)) {

	for {
		select {
		case <-svc.catchShutdown():
			return // Prevent leaking goroutine
		case err := <-svc.centralErr:
			processError(err)
		}
	}
}

func (svc *Service) processErrors() {

	for {
		select {
		case <-svc.catchShutdown():
			return // Prevent leaking goroutine
		case err := <-svc.centralErr:
			svc.log.Error(err)
		}
	}
}

func (svc *Service) isShutdown() bool {

	select {
	case <-svc.shutdownSignal:
		return true
	default:
		return false
	}
}

func (svc *Service) catchShutdown() <-chan struct{} {
	return svc.shutdownSignal
}
