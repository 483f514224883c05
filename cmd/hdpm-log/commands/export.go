package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return reader.Each(func(event log.Event) error {
		if err := encoder.Encode(jsonSafe(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

// jsonSafe converts CBOR-decoded payload maps, which may have non-string
// keys, into a form encoding/json accepts.
func jsonSafe(event log.Event) log.Event {
	if event.Message == nil || event.Message.Payload == nil {
		return event
	}
	msg := *event.Message
	msg.Payload = stringKeys(msg.Payload)
	event.Message = &msg
	return event
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	}
	return v
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "client_id", "direction", "layer", "category",
		"device", "instance", "data_link", "type", "function", "message_id"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return cw.Error()
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var instance, link, function, msgID string
		if event.Instance != 0 {
			instance = hdp.Instance(event.Instance).String()
		}
		if event.DataLinkID != 0 {
			link = strconv.FormatUint(uint64(event.DataLinkID), 10)
		}
		if m := event.Message; m != nil {
			function = ipc.Function(m.Function).String()
			msgID = strconv.FormatUint(uint64(m.MessageID), 10)
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampLayout),
			event.ClientID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.DeviceAddress,
			instance,
			link,
			typeLabel(event),
			function,
			msgID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
}
