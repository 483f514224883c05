// Package hdp holds the Health Device Profile vocabulary shared by the
// manager, the protocol engine boundary and the IPC layer: device addresses,
// instances, roles, channel modes and response codes, the error taxonomy,
// and the parser that extracts HDP instances and MDEP endpoints from a
// remote device's service discovery records.
package hdp
