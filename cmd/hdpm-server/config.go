package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/service"
)

// Backends.
const (
	BackendBlueZ    = "bluez"
	BackendSimulate = "simulate"
)

// Config holds the server configuration. Values come from the YAML file
// named by -config, then from explicitly set flags.
type Config struct {
	Socket         string        `yaml:"socket"`
	SocketMode     string        `yaml:"socket_mode"`
	MaxClients     int           `yaml:"max_clients"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	ServiceName  string `yaml:"service_name"`
	ProviderName string `yaml:"provider_name"`

	Backend   string `yaml:"backend"`
	Adapter   string `yaml:"adapter"`
	CacheFile string `yaml:"cache_file"`

	ProtocolLog        string `yaml:"protocol_log"`
	ProtocolLogMaxSize int64  `yaml:"protocol_log_max_size"`
	LogLevel           string `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	svc := service.DefaultConfig()
	return Config{
		Socket:         svc.SocketPath,
		SocketMode:     "0660",
		RequestTimeout: svc.RequestTimeout,
		ServiceName:    hdp.DefaultServiceName,
		ProviderName:   hdp.DefaultProviderName,
		Backend:        BackendBlueZ,
		Adapter:        "hci0",
		LogLevel:       "info",
	}
}

// LoadFile merges the YAML file at path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Socket == "" {
		errs = append(errs, errors.New("socket path is required"))
	}
	if _, err := c.Mode(); err != nil {
		errs = append(errs, err)
	}
	if c.ProtocolLogMaxSize < 0 {
		errs = append(errs, fmt.Errorf("protocol_log_max_size must not be negative, got %d", c.ProtocolLogMaxSize))
	}
	if c.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("max_clients must not be negative, got %d", c.MaxClients))
	}
	switch c.Backend {
	case BackendBlueZ, BackendSimulate:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Mode parses SocketMode as an octal permission.
func (c *Config) Mode() (os.FileMode, error) {
	if c.SocketMode == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(c.SocketMode, 8, 32)
	if err != nil || v > 0o777 {
		return 0, fmt.Errorf("socket_mode %q is not an octal permission", c.SocketMode)
	}
	return os.FileMode(v), nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// flagSet binds the command-line flags. Only flags the user set override
// file values.
type flagSet struct {
	fs         *flag.FlagSet
	configFile string
	values     Config
}

func newFlagSet(name string) *flagSet {
	f := &flagSet{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	d := DefaultConfig()
	f.fs.StringVar(&f.configFile, "config", "", "Configuration file path (YAML)")
	f.fs.StringVar(&f.values.Socket, "socket", d.Socket, "IPC socket path")
	f.fs.StringVar(&f.values.SocketMode, "socket-mode", d.SocketMode, "IPC socket permissions (octal)")
	f.fs.IntVar(&f.values.MaxClients, "max-clients", 0, "Maximum concurrent clients (0 = unlimited)")
	f.fs.DurationVar(&f.values.RequestTimeout, "request-timeout", d.RequestTimeout, "Timeout for service queries")
	f.fs.StringVar(&f.values.ServiceName, "service-name", d.ServiceName, "SDP service name")
	f.fs.StringVar(&f.values.ProviderName, "provider-name", d.ProviderName, "SDP provider name")
	f.fs.StringVar(&f.values.Backend, "backend", d.Backend, "Device backend: bluez, simulate")
	f.fs.StringVar(&f.values.Adapter, "adapter", d.Adapter, "Bluetooth adapter (bluez backend)")
	f.fs.StringVar(&f.values.CacheFile, "cache", "", "Remote service record cache file (YAML)")
	f.fs.StringVar(&f.values.ProtocolLog, "protocol-log", "", "Protocol event log file (.hlog)")
	f.fs.Int64Var(&f.values.ProtocolLogMaxSize, "protocol-log-max-size", 0, "Rotate the protocol log at this many bytes (0 = never)")
	f.fs.StringVar(&f.values.LogLevel, "log-level", d.LogLevel, "Log level: debug, info, warn, error")
	return f
}

// parse returns the effective configuration for args.
func (f *flagSet) parse(args []string) (Config, error) {
	if err := f.fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return Config{}, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "socket":
			cfg.Socket = f.values.Socket
		case "socket-mode":
			cfg.SocketMode = f.values.SocketMode
		case "max-clients":
			cfg.MaxClients = f.values.MaxClients
		case "request-timeout":
			cfg.RequestTimeout = f.values.RequestTimeout
		case "service-name":
			cfg.ServiceName = f.values.ServiceName
		case "provider-name":
			cfg.ProviderName = f.values.ProviderName
		case "backend":
			cfg.Backend = f.values.Backend
		case "adapter":
			cfg.Adapter = f.values.Adapter
		case "cache":
			cfg.CacheFile = f.values.CacheFile
		case "protocol-log":
			cfg.ProtocolLog = f.values.ProtocolLog
		case "protocol-log-max-size":
			cfg.ProtocolLogMaxSize = f.values.ProtocolLogMaxSize
		case "log-level":
			cfg.LogLevel = f.values.LogLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
