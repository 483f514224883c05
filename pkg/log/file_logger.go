package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLoggerOptions tunes a FileLogger.
type FileLoggerOptions struct {
	// MaxSize rotates the file once it reaches this many bytes. The full
	// file is renamed to path + ".1", replacing any earlier one. Zero
	// disables rotation.
	MaxSize int64
}

// FileLogger appends events to an .hlog file as a stream of CBOR items.
type FileLogger struct {
	path string
	opts FileLoggerOptions

	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	size    int64
	closed  bool
}

// countingWriter tracks how many bytes reach the file.
type countingWriter struct {
	l *FileLogger
}

func (w countingWriter) Write(p []byte) (int, error) {
	n, err := w.l.file.Write(p)
	w.l.size += int64(n)
	return n, err
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	return OpenFileLogger(path, FileLoggerOptions{})
}

// OpenFileLogger opens path for appending with the given options.
func OpenFileLogger(path string, opts FileLoggerOptions) (*FileLogger, error) {
	l := &FileLogger{path: path, opts: opts}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) open() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	l.file = f
	l.size = st.Size()
	l.encoder = NewEncoder(countingWriter{l})
	return nil
}

// rotate moves the current file aside and starts a new one. Callers hold
// l.mu.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return fmt.Errorf("rotate %s: %w", l.path, err)
	}
	return l.open()
}

// Log appends event. Encoding and rotation errors are dropped; the
// protocol log never fails the operation being logged.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if l.opts.MaxSize > 0 && l.size >= l.opts.MaxSize {
		if err := l.rotate(); err != nil {
			l.closed = true
			return
		}
	}
	_ = l.encoder.Encode(event)
}

// Size returns the size of the current file in bytes.
func (l *FileLogger) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Close closes the file. Later calls to Log are ignored and later calls to
// Close return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
