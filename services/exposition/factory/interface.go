package factory

import "context"

// Engine defines the exposition engine's operations
type Engine interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}

// Server defines the web server's operations
type Server interface {
	Start()
	Address() string
	Close() error
	IsInterfaceNil() bool
}
