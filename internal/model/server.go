package model

import (
	"context"
	"net"
)

// SecurityLayer produces the listener the HTTP server serves on, with or
// without TLS depending on configuration.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the serving surface of the authorization server: it starts on
// a listener from the security layer and drains in-flight requests on Stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
