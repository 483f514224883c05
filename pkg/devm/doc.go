// Package devm defines the device manager boundary used by the health device
// manager.
//
// A device manager owns the Bluetooth adapter: it brings ACL links up with
// authentication and encryption, tears them down, answers remote service
// queries from its cache and reports power and link events. The manager
// never talks to the adapter directly.
//
// Two implementations exist: Sim, an in-memory device manager for tests and
// the server's simulation mode, and the BlueZ backed one in internal/bluez.
// Both keep discovered service records in a ServiceCache.
package devm
