package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Functions         map[ipc.Function]int
	Devices           map[string]*DeviceStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single remote device.
type DeviceStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	DataLinks    map[uint32]struct{}
	BytesInbound int
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Functions:         make(map[ipc.Function]int),
		Devices:           make(map[string]*DeviceStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Message != nil && event.Message.Type != log.MessageTypeResponse {
		s.Functions[ipc.Function(event.Message.Function)]++
	}
	if event.Error != nil {
		s.Errors++
	}

	if event.DeviceAddress == "" {
		return
	}
	dev, ok := s.Devices[event.DeviceAddress]
	if !ok {
		dev = &DeviceStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			DataLinks: make(map[uint32]struct{}),
		}
		s.Devices[event.DeviceAddress] = dev
	}
	dev.Events++
	if event.Timestamp.After(dev.LastSeen) {
		dev.LastSeen = event.Timestamp
	}
	if event.DataLinkID != 0 {
		dev.DataLinks[event.DataLinkID] = struct{}{}
	}
	if m := event.Message; m != nil && ipc.Function(m.Function) == ipc.EventDataReceived {
		if p, ok := m.Payload.(map[any]any); ok {
			dev.BytesInbound += payloadLength(p)
		}
	}
}

// payloadLength reads the DataLength field of a decoded DataReceived event.
func payloadLength(p map[any]any) int {
	for k, v := range p {
		if key, ok := k.(uint64); !ok || key != 3 {
			continue
		}
		if n, ok := v.(uint64); ok {
			return int(n)
		}
	}
	return 0
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	err = reader.Each(func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== HDP Manager Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerIPC, log.LayerManager, log.LayerEngine, log.LayerDevice} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryIndication, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}

	if len(stats.Functions) > 0 {
		fns := make([]ipc.Function, 0, len(stats.Functions))
		for f := range stats.Functions {
			fns = append(fns, f)
		}
		sort.Slice(fns, func(i, j int) bool { return fns[i] < fns[j] })

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Requests and Events:")
		for _, f := range fns {
			fmt.Fprintf(w, "  %-40s %d\n", f.String()+":", stats.Functions[f])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	if len(stats.Devices) > 0 {
		addrs := make([]string, 0, len(stats.Devices))
		for addr := range stats.Devices {
			addrs = append(addrs, addr)
		}
		sort.Slice(addrs, func(i, j int) bool {
			return stats.Devices[addrs[i]].FirstSeen.Before(stats.Devices[addrs[j]].FirstSeen)
		})

		fmt.Fprintln(w)
		for _, addr := range addrs {
			d := stats.Devices[addr]
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n",
				addr, d.Events, d.LastSeen.Sub(d.FirstSeen).Round(time.Millisecond))
			if len(d.DataLinks) > 0 {
				fmt.Fprintf(w, "           Data channels: %d\n", len(d.DataLinks))
			}
			if d.BytesInbound > 0 {
				fmt.Fprintf(w, "           Bytes received: %d\n", d.BytesInbound)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
