package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

const (
	// MaxLogFrameDataSize is the maximum frame data size to include in logs (4 KB).
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrFrameTruncated indicates the stream ended inside a message.
	ErrFrameTruncated = errors.New("frame truncated")
)

// FrameWriter writes IPC messages to an underlying writer.
type FrameWriter struct {
	w  io.Writer
	mu sync.Mutex

	logger   log.Logger
	clientID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, clientID string) {
	fw.logger = logger
	fw.clientID = clientID
}

// WriteMessage writes msg as a single frame.
// Thread-safe: can be called from multiple goroutines.
func (fw *FrameWriter) WriteMessage(msg *ipc.Message) error {
	frame, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if fw.logger != nil {
		fw.logger.Log(frameEvent(fw.clientID, frame, log.DirectionOut))
	}
	return nil
}

// FrameReader reads IPC messages from an underlying reader.
type FrameReader struct {
	r         io.Reader
	headerBuf [ipc.HeaderSize]byte

	logger   log.Logger
	clientID string
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, clientID string) {
	fr.logger = logger
	fr.clientID = clientID
}

// ReadMessage reads the next message. It returns io.EOF only when the
// stream ends on a frame boundary.
func (fr *FrameReader) ReadMessage() (*ipc.Message, error) {
	if _, err := io.ReadFull(fr.r, fr.headerBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h, err := ipc.ParseHeader(fr.headerBuf[:])
	if err != nil {
		return nil, err
	}

	frame := make([]byte, ipc.HeaderSize+int(h.PayloadLength))
	copy(frame, fr.headerBuf[:])
	if _, err := io.ReadFull(fr.r, frame[ipc.HeaderSize:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if fr.logger != nil {
		fr.logger.Log(frameEvent(fr.clientID, frame, log.DirectionIn))
	}
	return &ipc.Message{Header: h, Payload: frame[ipc.HeaderSize:]}, nil
}

func frameEvent(clientID string, frame []byte, direction log.Direction) log.Event {
	data := frame
	truncated := false
	if len(frame) > MaxLogFrameDataSize {
		data = frame[:MaxLogFrameDataSize]
		truncated = true
	}
	return log.Event{
		Timestamp: time.Now(),
		ClientID:  clientID,
		Direction: direction,
		Layer:     log.LayerIPC,
		Category:  log.CategoryMessage,
		Frame: &log.FrameEvent{
			Size:      len(frame),
			Data:      data,
			Truncated: truncated,
		},
	}
}

// Framer combines frame reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a new framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *Framer) SetLogger(logger log.Logger, clientID string) {
	f.FrameReader.SetLogger(logger, clientID)
	f.FrameWriter.SetLogger(logger, clientID)
}
