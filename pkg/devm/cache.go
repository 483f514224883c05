package devm

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// CacheVersion is the current version of the cache file format.
const CacheVersion = 1

// CachedDevice holds the service records last read from one device.
type CachedDevice struct {
	// Address is the remote device address.
	Address hdp.Address `yaml:"address"`

	// UpdatedAt is when the records were stored.
	UpdatedAt time.Time `yaml:"updated_at"`

	// Records is the raw SDP service search attribute response, hex encoded.
	Records string `yaml:"records"`
}

type cacheFile struct {
	Version int            `yaml:"version"`
	SavedAt time.Time      `yaml:"saved_at"`
	Devices []CachedDevice `yaml:"devices,omitempty"`
}

// ServiceCache keeps raw service records per device, optionally backed by a
// YAML file. A cache with an empty path lives only in memory.
type ServiceCache struct {
	mu      sync.Mutex
	path    string
	devices map[hdp.Address]CachedDevice
}

// NewServiceCache creates a cache stored at path.
func NewServiceCache(path string) *ServiceCache {
	return &ServiceCache{
		path:    path,
		devices: make(map[hdp.Address]CachedDevice),
	}
}

// Load reads the cache file. A missing file leaves the cache empty.
func (c *ServiceCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var f cacheFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse service cache: %w", err)
	}
	if f.Version != CacheVersion {
		return fmt.Errorf("service cache version %d not supported", f.Version)
	}
	for _, d := range f.Devices {
		c.devices[d.Address] = d
	}
	return nil
}

// Put stores the raw records for addr and saves the file.
func (c *ServiceCache) Put(addr hdp.Address, raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.devices[addr] = CachedDevice{
		Address:   addr,
		UpdatedAt: time.Now(),
		Records:   hex.EncodeToString(raw),
	}
	return c.save()
}

// Get returns the raw records for addr.
func (c *ServiceCache) Get(addr hdp.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.devices[addr]
	if !ok {
		return nil, fmt.Errorf("%s: %w", addr, ErrNoServiceRecords)
	}
	raw, err := hex.DecodeString(d.Records)
	if err != nil {
		return nil, fmt.Errorf("%s: corrupt cache entry: %w", addr, err)
	}
	return raw, nil
}

// Delete drops the records for addr.
func (c *ServiceCache) Delete(addr hdp.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.devices[addr]; !ok {
		return nil
	}
	delete(c.devices, addr)
	return c.save()
}

// Len returns the number of cached devices.
func (c *ServiceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.devices)
}

// save writes the cache file. Callers hold c.mu.
func (c *ServiceCache) save() error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	f := cacheFile{Version: CacheVersion, SavedAt: time.Now()}
	for _, d := range c.devices {
		f.Devices = append(f.Devices, d)
	}
	slices.SortFunc(f.Devices, func(a, b CachedDevice) int {
		return strings.Compare(a.Address.String(), b.Address.String())
	})
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
