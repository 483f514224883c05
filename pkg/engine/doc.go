// Package engine defines the boundary to the MCAP/HDP protocol engine: the
// component that owns L2CAP channels, frames MCAP packets and publishes
// service records.
//
// The engine reports failures as small negative codes (see ErrorCode) and
// delivers asynchronous indications and confirmations as Event values to the
// handler supplied when the local instance is registered. Handlers may be
// called from any goroutine, including from inside an Engine method.
package engine
