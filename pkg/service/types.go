package service

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// Service errors.
var (
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrClientUnknown  = errors.New("client not connected")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateRunning - service is accepting clients.
	StateRunning

	// StateStopped - service has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Service.
type Config struct {
	// SocketPath is the unix socket clients connect to.
	SocketPath string

	// SocketMode is applied to the socket file. Default: 0660.
	SocketMode os.FileMode

	// MaxClients caps concurrent client connections. Zero means no cap.
	MaxClients int

	// RequestTimeout bounds the service record queries made on behalf of a
	// client. Default: 30s.
	RequestTimeout time.Duration

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives framed IPC traffic (optional).
	ProtocolLogger log.Logger
}

// DefaultConfig returns a configuration with the default socket path.
func DefaultConfig() Config {
	return Config{
		SocketPath:     "/run/hdpm/hdpm.sock",
		RequestTimeout: 30 * time.Second,
	}
}
