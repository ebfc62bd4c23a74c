package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// AddressInUseError represents a "port already in use" error that preserves
// the original error for type checking.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// maxFallbackAttempts bounds the port search in BindTCPWithFallback.
const maxFallbackAttempts = 100

// BindTCP binds a TCP listener on address:port and holds it, so the port is
// reserved until the listener is handed to the API server. IPv4 only.
func BindTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{
				Port:    port,
				Address: address,
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback binds preferredPort, or the next free port after it
// when it is taken. Returns the listener and the port actually bound.
func BindTCPWithFallback(address string, preferredPort int) (net.Listener, int, error) {
	for port := preferredPort; port < preferredPort+maxFallbackAttempts && port <= 65535; port++ {
		listener, err := BindTCP(address, port)
		if err != nil {
			var inUse *AddressInUseError
			if errors.As(err, &inUse) {
				continue
			}
			// Permission, invalid address, etc.
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}

		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxFallbackAttempts-1, address)
}

// ListenerPort extracts the port number from a bound TCP listener.
func ListenerPort(listener net.Listener) (int, error) {
	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", listener.Addr())
	}
	return tcpAddr.Port, nil
}
