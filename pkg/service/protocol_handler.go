package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
)

// ProtocolHandler decodes client requests, runs them against the manager
// on behalf of the requesting client and builds the responses.
type ProtocolHandler struct {
	mgr     HealthManager
	timeout time.Duration
	logger  *slog.Logger
	plog    log.Logger
}

// NewProtocolHandler creates a handler for mgr. Queries are bounded by
// timeout.
func NewProtocolHandler(mgr HealthManager, timeout time.Duration, logger *slog.Logger, plog log.Logger) *ProtocolHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProtocolHandler{mgr: mgr, timeout: timeout, logger: logger, plog: plog}
}

// HandleRequest processes one message from client. It returns nil when
// the message is not a request; such messages are dropped.
func (h *ProtocolHandler) HandleRequest(ctx context.Context, client manager.ClientID, msg *ipc.Message) *ipc.Message {
	if msg.IsResponse() || msg.IsEvent() {
		h.logger.Debug("dropping non-request message", "client", client, "function", msg.Function)
		return nil
	}
	start := time.Now()

	var body any
	req, err := ipc.DecodeRequest(msg)
	if err != nil {
		h.logger.Debug("bad request", "client", client, "function", msg.Function, "error", err)
		body = ipc.StatusResponse{Result: ipc.ResultOf(err)}
	} else {
		h.logMessage(client, log.DirectionIn, log.MessageTypeRequest, msg.Header, req, nil, 0)
		body = h.dispatch(ctx, manager.RemoteClient{ID: client}, req)
	}

	resp, err := ipc.NewResponse(msg.Header, body)
	if err != nil {
		h.logger.Error("encode response", "client", client, "function", msg.Function, "error", err)
		return nil
	}
	resp.AddressID = uint32(client)
	status := statusOf(body)
	h.logMessage(client, log.DirectionOut, log.MessageTypeResponse, resp.Header, body, &status, time.Since(start))
	return resp
}

func (h *ProtocolHandler) dispatch(ctx context.Context, owner manager.Owner, req ipc.Request) any {
	switch r := req.(type) {
	case *ipc.RegisterEndpoint:
		id, err := h.mgr.RegisterEndpoint(owner, r.DataType, r.LocalRole, string(r.Description))
		return ipc.RegisterEndpointResponse{Result: ipc.ResultOf(err), EndpointID: id}

	case *ipc.UnregisterEndpoint:
		return statusResponse(h.mgr.UnregisterEndpoint(owner, r.EndpointID))

	case *ipc.DataConnectionRequestResponse:
		return statusResponse(h.mgr.RespondToConnectionRequest(owner, r.DataLinkID, r.ResponseCode, r.ChannelMode))

	case *ipc.QueryInstances:
		ctx, cancel := h.queryContext(ctx)
		defer cancel()
		total, instances, err := h.mgr.QueryInstances(ctx, r.Address, int(r.MaximumEntries))
		if err != nil {
			return ipc.QueryInstancesResponse{Result: ipc.ResultOf(err)}
		}
		return ipc.QueryInstancesResponse{TotalInstances: uint32(total), Instances: instances}

	case *ipc.QueryEndpoints:
		ctx, cancel := h.queryContext(ctx)
		defer cancel()
		total, endpoints, err := h.mgr.QueryEndpoints(ctx, r.Address, r.Instance, int(r.MaximumEntries))
		if err != nil {
			return ipc.QueryEndpointsResponse{Result: ipc.ResultOf(err)}
		}
		return ipc.QueryEndpointsResponse{TotalEndpoints: uint32(total), Endpoints: endpoints}

	case *ipc.QueryEndpointDescription:
		ctx, cancel := h.queryContext(ctx)
		defer cancel()
		total, desc, err := h.mgr.QueryEndpointDescription(ctx, r.Address, r.Instance, r.EndpointInfo, int(r.MaximumLength))
		if err != nil {
			return ipc.QueryEndpointDescriptionResponse{Result: ipc.ResultOf(err)}
		}
		return ipc.QueryEndpointDescriptionResponse{
			TotalLength:       uint32(total),
			DescriptionLength: uint32(len(desc)),
			Description:       []byte(desc),
		}

	case *ipc.Connect:
		_, err := h.mgr.Connect(ctx, owner, r.Address, r.Instance, false)
		return statusResponse(err)

	case *ipc.Disconnect:
		return statusResponse(h.mgr.Disconnect(owner, r.Address, r.Instance))

	case *ipc.ConnectEndpoint:
		id, _, err := h.mgr.ConnectEndpoint(ctx, owner, r.Address, r.Instance, r.EndpointID, r.ChannelMode, false)
		return ipc.ConnectEndpointResponse{Result: ipc.ResultOf(err), DataLinkID: id}

	case *ipc.DisconnectEndpoint:
		return statusResponse(h.mgr.DisconnectEndpoint(owner, r.DataLinkID))

	case *ipc.WriteData:
		return statusResponse(h.mgr.WriteData(owner, r.DataLinkID, r.Data))
	}
	return statusResponse(ipc.ErrUnknownFunction)
}

func (h *ProtocolHandler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

func (h *ProtocolHandler) logMessage(client manager.ClientID, dir log.Direction, typ log.MessageType, hdr ipc.Header, payload any, status *int32, elapsed time.Duration) {
	if h.plog == nil {
		return
	}
	ev := &log.MessageEvent{
		Type:      typ,
		MessageID: hdr.RequestID(),
		Function:  uint32(hdr.Function),
		Status:    status,
		Payload:   payload,
	}
	if typ == log.MessageTypeResponse {
		ev.ProcessingTime = &elapsed
	}
	h.plog.Log(log.Event{
		Timestamp: time.Now(),
		ClientID:  manager.RemoteClient{ID: client}.String(),
		Direction: dir,
		Layer:     log.LayerIPC,
		Category:  log.CategoryMessage,
		Message:   ev,
	})
}

func statusResponse(err error) ipc.StatusResponse {
	return ipc.StatusResponse{Result: ipc.ResultOf(err)}
}

func statusOf(body any) int32 {
	if r, ok := body.(interface{ Code() int32 }); ok {
		return r.Code()
	}
	return 0
}
