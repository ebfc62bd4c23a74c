package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestBindTCP(t *testing.T) {
	l, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error = %v", err)
	}
	defer l.Close()

	port, err := ListenerPort(l)
	if err != nil {
		t.Fatalf("ListenerPort() error = %v", err)
	}
	if port == 0 {
		t.Error("ListenerPort() = 0, want bound port")
	}

	// Binding the same port again must report AddressInUseError.
	_, err = BindTCP("127.0.0.1", port)
	var inUse *AddressInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("BindTCP() on taken port error = %v, want AddressInUseError", err)
	}
	if inUse.Port != port {
		t.Errorf("AddressInUseError.Port = %d, want %d", inUse.Port, port)
	}
	if !IsAddressInUseError(err) {
		t.Error("IsAddressInUseError() = false, want true")
	}
}

func TestBindTCPWithFallback(t *testing.T) {
	taken, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error = %v", err)
	}
	defer taken.Close()
	takenPort, _ := ListenerPort(taken)

	l, port, err := BindTCPWithFallback("127.0.0.1", takenPort)
	if err != nil {
		t.Skipf("no free port after %d: %v", takenPort, err)
	}
	defer l.Close()

	if port == takenPort {
		t.Errorf("BindTCPWithFallback() port = %d, want a different port", port)
	}
}

func TestIsConnectionRefusedError(t *testing.T) {
	l, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error = %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	_, err = net.DialTimeout("tcp", addr, time.Second)
	if err == nil {
		t.Skip("port was reused by another process")
	}
	if !IsConnectionRefusedError(err) {
		t.Errorf("IsConnectionRefusedError(%v) = false, want true", err)
	}
	if IsConnectionRefusedError(errors.New("other")) {
		t.Error("IsConnectionRefusedError(plain error) = true, want false")
	}
}

func TestIsTimeoutError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutErr{}}, true},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeoutError(tt.err); got != tt.want {
				t.Errorf("IsTimeoutError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
