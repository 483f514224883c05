// Package log records protocol events of the health device manager.
//
// It is separate from operational logging (slog). Protocol events form a
// machine-readable trace of everything crossing the IPC socket, every state
// change of a connection, data channel or endpoint, and every indication
// the protocol engine or device manager delivers.
//
// # Sinks
//
//	// Console, through slog at debug level
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// An .hlog file, rotated at 64 MiB
//	fl, err := log.OpenFileLogger("/var/log/hdpm/hdpm.hlog", log.FileLoggerOptions{MaxSize: 64 << 20})
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(fl, log.NewSlogAdapter(slog.Default()))
//
// # Layers
//
//   - IPC: raw frames (FrameEvent) and decoded messages (MessageEvent)
//   - Manager: state changes (StateChangeEvent)
//   - Engine and Device: indications and confirmations (IndicationEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// An .hlog file is a plain sequence of CBOR-encoded events with integer
// keys. Reader streams them back, optionally through a Filter. The hdpm-log
// tool views, filters, summarizes and exports them.
package log
