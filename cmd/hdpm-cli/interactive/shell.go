// Package interactive provides the command shell of hdpm-cli.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/hdpm-project/hdpm-go/pkg/client"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
)

// Client is the part of client.Client the shell drives.
type Client interface {
	RegisterEndpoint(ctx context.Context, dataType uint16, role hdp.Role, description string) (uint8, error)
	UnregisterEndpoint(ctx context.Context, endpointID uint8) error
	RespondToConnectionRequest(ctx context.Context, dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode) error
	QueryInstances(ctx context.Context, addr hdp.Address, max int) (int, []hdp.Instance, error)
	QueryEndpoints(ctx context.Context, addr hdp.Address, instance hdp.Instance, max int) (int, []hdp.EndpointInfo, error)
	QueryEndpointDescription(ctx context.Context, addr hdp.Address, instance hdp.Instance, info hdp.EndpointInfo, max int) (int, string, error)
	Connect(ctx context.Context, addr hdp.Address, instance hdp.Instance) error
	ConnectAndWait(ctx context.Context, addr hdp.Address, instance hdp.Instance) (hdp.ConnectionStatus, error)
	Disconnect(ctx context.Context, addr hdp.Address, instance hdp.Instance) error
	ConnectEndpoint(ctx context.Context, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode) (uint32, error)
	ConnectEndpointAndWait(ctx context.Context, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode) (uint32, hdp.ConnectionStatus, error)
	DisconnectEndpoint(ctx context.Context, dataLinkID uint32) error
	WriteData(ctx context.Context, dataLinkID uint32, data []byte) error
	Connected() bool
}

var _ Client = (*client.Client)(nil)

const defaultMax = 16

// Shell runs commands against a Client.
type Shell struct {
	c       Client
	rl      *readline.Instance
	out     io.Writer
	timeout time.Duration
}

// New creates a shell reading from the terminal.
func New(c Client, timeout time.Duration) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hdpm> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{c: c, rl: rl, out: rl.Stdout(), timeout: timeout}, nil
}

// Stdout returns a writer that does not garble the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// HandleEvent prints a server event.
func (s *Shell) HandleEvent(ev ipc.Event) {
	fmt.Fprintf(s.out, "[EVENT] %s\n", FormatEvent(ev))
}

// Run reads commands until quit, EOF or ctx ends.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return
		}
		if !s.Exec(ctx, line) {
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "register", "reg":
		err = s.cmdRegister(ctx, args)
	case "unregister", "unreg":
		err = s.cmdUnregister(ctx, args)
	case "instances":
		err = s.cmdInstances(ctx, args)
	case "endpoints":
		err = s.cmdEndpoints(ctx, args)
	case "describe", "desc":
		err = s.cmdDescribe(ctx, args)
	case "connect":
		err = s.cmdConnect(ctx, args)
	case "disconnect":
		err = s.cmdDisconnect(ctx, args)
	case "open":
		err = s.cmdOpen(ctx, args)
	case "close":
		err = s.cmdClose(ctx, args)
	case "accept":
		err = s.cmdRespond(ctx, args, hdp.ResponseSuccess)
	case "reject":
		err = s.cmdRespond(ctx, args, hdp.ResponseResourceUnavailable)
	case "send":
		err = s.cmdSend(ctx, args)
	case "status":
		fmt.Fprintf(s.out, "connected: %v\n", s.c.Connected())
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
HDP Manager Commands:
  Endpoints:
    register <type> <source|sink> [description]  - Register a local endpoint
    unregister <id>                              - Remove a local endpoint
    accept <link> [any|reliable|streaming]       - Accept an incoming data channel
    reject <link>                                - Reject an incoming data channel

  Discovery:
    instances <addr> [max]                       - List HDP instances of a device
    endpoints <addr> <instance> [max]            - List endpoints of an instance
    describe <addr> <instance> <id> <type> <role> [max]
                                                 - Show an endpoint description

  Connections:
    connect <addr> <instance> [-wait]            - Open the control channel
    disconnect <addr> <instance>                 - Close the control channel
    open <addr> <instance> <id> [mode] [-wait]   - Open a data channel
    close <link>                                 - Close a data channel
    send <link> <hex>                            - Send an APDU

  Other:
    status                                       - Show server connection state
    help                                         - Show this help
    quit                                         - Exit

Instances are written control/data in hex, e.g. 1001/1003.
`)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("register", readline.PcItem("0x1004", readline.PcItem("source"), readline.PcItem("sink"))),
		readline.PcItem("unregister"),
		readline.PcItem("accept"),
		readline.PcItem("reject"),
		readline.PcItem("instances"),
		readline.PcItem("endpoints"),
		readline.PcItem("describe"),
		readline.PcItem("connect"),
		readline.PcItem("disconnect"),
		readline.PcItem("open"),
		readline.PcItem("close"),
		readline.PcItem("send"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// FormatEvent renders an event on one line.
func FormatEvent(ev ipc.Event) string {
	switch e := ev.(type) {
	case *ipc.ConnectionStatusEvent:
		return fmt.Sprintf("connection %s %s: %s", e.Address, e.Instance, e.Status)
	case *ipc.DisconnectedEvent:
		return fmt.Sprintf("disconnected %s %s", e.Address, e.Instance)
	case *ipc.IncomingDataConnectionRequestEvent:
		return fmt.Sprintf("incoming data channel %d from %s to endpoint %d (%s), answer with accept/reject",
			e.DataLinkID, e.Address, e.EndpointID, e.ChannelMode)
	case *ipc.DataConnectedEvent:
		return fmt.Sprintf("data channel %d open from %s on endpoint %d", e.DataLinkID, e.Address, e.EndpointID)
	case *ipc.DataDisconnectedEvent:
		return fmt.Sprintf("data channel %d closed (%s)", e.DataLinkID, e.Reason)
	case *ipc.DataConnectionStatusEvent:
		return fmt.Sprintf("data channel %d to %s %s endpoint %d: %s",
			e.DataLinkID, e.Address, e.Instance, e.EndpointID, e.Status)
	case *ipc.DataReceivedEvent:
		return fmt.Sprintf("data channel %d received %d bytes: %s", e.DataLinkID, len(e.Data), hex.EncodeToString(e.Data))
	}
	return ev.Function().String()
}
