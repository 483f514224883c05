package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

func (s *Shell) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func usage(text string) error {
	return fmt.Errorf("usage: %s", text)
}

func (s *Shell) cmdRegister(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("register <type> <source|sink> [description]")
	}
	dataType, err := parseUint(args[0], 16)
	if err != nil {
		return err
	}
	role, err := parseRole(args[1])
	if err != nil {
		return err
	}
	desc := strings.Join(args[2:], " ")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	id, err := s.c.RegisterEndpoint(ctx, uint16(dataType), role, desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "registered endpoint %d (type 0x%04X, %s)\n", id, dataType, role)
	return nil
}

func (s *Shell) cmdUnregister(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("unregister <id>")
	}
	id, err := parseUint(args[0], 8)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.c.UnregisterEndpoint(ctx, uint8(id)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "unregistered endpoint %d\n", id)
	return nil
}

func (s *Shell) cmdRespond(ctx context.Context, args []string, code hdp.ResponseCode) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("accept|reject <link> [mode]")
	}
	id, err := parseUint(args[0], 32)
	if err != nil {
		return err
	}
	mode := hdp.ChannelModeNoPreference
	if len(args) == 2 {
		if mode, err = parseMode(args[1]); err != nil {
			return err
		}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.c.RespondToConnectionRequest(ctx, uint32(id), code, mode); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "answered data channel %d: %s\n", id, code)
	return nil
}

func (s *Shell) cmdInstances(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("instances <addr> [max]")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	max, err := maxArg(args[1:])
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	total, instances, err := s.c.QueryInstances(ctx, addr, max)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d instance(s) on %s\n", total, addr)
	for _, inst := range instances {
		fmt.Fprintf(s.out, "  %s\n", inst)
	}
	return nil
}

func (s *Shell) cmdEndpoints(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usage("endpoints <addr> <instance> [max]")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	instance, err := parseInstance(args[1])
	if err != nil {
		return err
	}
	max, err := maxArg(args[2:])
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	total, endpoints, err := s.c.QueryEndpoints(ctx, addr, instance, max)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d endpoint(s) on %s %s\n", total, addr, instance)
	for _, ep := range endpoints {
		fmt.Fprintf(s.out, "  id %-3d type 0x%04X  %s\n", ep.EndpointID, ep.DataType, ep.Role)
	}
	return nil
}

func (s *Shell) cmdDescribe(ctx context.Context, args []string) error {
	if len(args) < 5 || len(args) > 6 {
		return usage("describe <addr> <instance> <id> <type> <role> [max]")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	instance, err := parseInstance(args[1])
	if err != nil {
		return err
	}
	id, err := parseUint(args[2], 8)
	if err != nil {
		return err
	}
	dataType, err := parseUint(args[3], 16)
	if err != nil {
		return err
	}
	role, err := parseRole(args[4])
	if err != nil {
		return err
	}
	max, err := maxArg(args[5:])
	if err != nil {
		return err
	}
	info := hdp.EndpointInfo{EndpointID: uint8(id), DataType: uint16(dataType), Role: role}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	total, desc, err := s.c.QueryEndpointDescription(ctx, addr, instance, info, max)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "description (%d bytes): %q\n", total, desc)
	return nil
}

func (s *Shell) cmdConnect(ctx context.Context, args []string) error {
	args, wait := flag(args, "-wait")
	if len(args) != 2 {
		return usage("connect <addr> <instance> [-wait]")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	instance, err := parseInstance(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if !wait {
		if err := s.c.Connect(ctx, addr, instance); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "connecting to %s %s\n", addr, instance)
		return nil
	}
	status, err := s.c.ConnectAndWait(ctx, addr, instance)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "connection %s %s: %s\n", addr, instance, status)
	return nil
}

func (s *Shell) cmdDisconnect(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("disconnect <addr> <instance>")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	instance, err := parseInstance(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.c.Disconnect(ctx, addr, instance)
}

func (s *Shell) cmdOpen(ctx context.Context, args []string) error {
	args, wait := flag(args, "-wait")
	if len(args) < 3 || len(args) > 4 {
		return usage("open <addr> <instance> <id> [mode] [-wait]")
	}
	addr, err := hdp.ParseAddress(args[0])
	if err != nil {
		return err
	}
	instance, err := parseInstance(args[1])
	if err != nil {
		return err
	}
	id, err := parseUint(args[2], 8)
	if err != nil {
		return err
	}
	mode := hdp.ChannelModeNoPreference
	if len(args) == 4 {
		if mode, err = parseMode(args[3]); err != nil {
			return err
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if !wait {
		link, err := s.c.ConnectEndpoint(ctx, addr, instance, uint8(id), mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "opening data channel %d\n", link)
		return nil
	}
	link, status, err := s.c.ConnectEndpointAndWait(ctx, addr, instance, uint8(id), mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "data channel %d: %s\n", link, status)
	return nil
}

func (s *Shell) cmdClose(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("close <link>")
	}
	id, err := parseUint(args[0], 32)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.c.DisconnectEndpoint(ctx, uint32(id))
}

func (s *Shell) cmdSend(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("send <link> <hex>")
	}
	id, err := parseUint(args[0], 32)
	if err != nil {
		return err
	}
	data, err := parseBytes(args[1:])
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.c.WriteData(ctx, uint32(id), data); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "sent %d bytes on data channel %d\n", len(data), id)
	return nil
}

func maxArg(args []string) (int, error) {
	if len(args) == 0 {
		return defaultMax, nil
	}
	v, err := parseUint(args[0], 16)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
