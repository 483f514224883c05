package log

// MultiLogger fans events out to several sinks, typically a FileLogger for
// the .hlog file and a SlogAdapter for the console.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger returns a MultiLogger over the given sinks. Nil sinks and
// NoopLoggers are dropped and nested MultiLoggers are flattened.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, s := range sinks {
		switch l := s.(type) {
		case nil, NoopLogger:
		case *MultiLogger:
			m.sinks = append(m.sinks, l.sinks...)
		default:
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Len returns the number of sinks.
func (m *MultiLogger) Len() int { return len(m.sinks) }

// Log forwards the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
