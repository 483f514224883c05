package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
)

var (
	testAddr     = hdp.MustParseAddress("00:1B:DC:0F:10:22")
	testInstance = hdp.NewInstance(0x1001, 0x1003)
	testOwner    = manager.RemoteClient{ID: 3}
)

func request(t *testing.T, req ipc.Request) *ipc.Message {
	t.Helper()
	msg, err := ipc.NewRequest(3, 17, req)
	require.NoError(t, err)
	return msg
}

func handle(t *testing.T, h *ProtocolHandler, msg *ipc.Message, out any) {
	t.Helper()
	resp := h.HandleRequest(context.Background(), 3, msg)
	require.NotNil(t, resp)
	assert.Equal(t, uint32(17), resp.RequestID())
	assert.Equal(t, uint32(3), resp.AddressID)
	assert.Equal(t, msg.Function, resp.Function)
	require.NoError(t, ipc.DecodeResponse(resp, out))
}

func TestHandleRegisterEndpoint(t *testing.T) {
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().RegisterEndpoint(testOwner, uint16(0x1004), hdp.RoleSink, "Pulse Oximeter").Return(uint8(1), nil)
	h := NewProtocolHandler(mgr, 0, nil, nil)

	var resp ipc.RegisterEndpointResponse
	handle(t, h, request(t, &ipc.RegisterEndpoint{
		DataType:          0x1004,
		LocalRole:         hdp.RoleSink,
		DescriptionLength: 14,
		Description:       []byte("Pulse Oximeter"),
	}), &resp)
	assert.NoError(t, resp.Err())
	assert.Equal(t, uint8(1), resp.EndpointID)
}

func TestHandleMapsManagerErrors(t *testing.T) {
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().Connect(mock.Anything, testOwner, testAddr, testInstance, false).Return(hdp.StatusSuccess, hdp.ErrNotInitialized)
	h := NewProtocolHandler(mgr, 0, nil, nil)

	var resp ipc.StatusResponse
	handle(t, h, request(t, &ipc.Connect{Address: testAddr, Instance: testInstance}), &resp)
	assert.Equal(t, hdp.CodeOf(hdp.ErrNotInitialized), resp.Status)
	assert.ErrorIs(t, resp.Err(), hdp.ErrNotInitialized)
}

func TestHandleInvalidRequestSkipsManager(t *testing.T) {
	mgr := NewMockHealthManager(t)
	h := NewProtocolHandler(mgr, 0, nil, nil)

	payload, err := ipc.Marshal(ipc.WriteData{DataLinkID: 1, DataLength: 3, Data: []byte{1}})
	require.NoError(t, err)
	msg := &ipc.Message{
		Header:  ipc.Header{AddressID: 3, MessageID: 17, Group: ipc.Group, Function: ipc.FuncWriteData},
		Payload: payload,
	}

	var resp ipc.StatusResponse
	handle(t, h, msg, &resp)
	assert.ErrorIs(t, resp.Err(), hdp.ErrInvalidParameter)
}

func TestHandleConnectEndpointIsNonBlocking(t *testing.T) {
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().
		ConnectEndpoint(mock.Anything, testOwner, testAddr, testInstance, uint8(2), hdp.ChannelModeStreaming, false).
		Return(uint32(9), hdp.StatusSuccess, nil)
	h := NewProtocolHandler(mgr, 0, nil, nil)

	var resp ipc.ConnectEndpointResponse
	handle(t, h, request(t, &ipc.ConnectEndpoint{
		Address:     testAddr,
		Instance:    testInstance,
		EndpointID:  2,
		ChannelMode: hdp.ChannelModeStreaming,
	}), &resp)
	assert.NoError(t, resp.Err())
	assert.Equal(t, uint32(9), resp.DataLinkID)
}

func TestHandleQueryEndpointDescription(t *testing.T) {
	info := hdp.EndpointInfo{EndpointID: 1, DataType: 0x1004, Role: hdp.RoleSource}
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().
		QueryEndpointDescription(mock.Anything, testAddr, testInstance, info, 5).
		Return(14, "Pulse", nil)
	h := NewProtocolHandler(mgr, 0, nil, nil)

	var resp ipc.QueryEndpointDescriptionResponse
	handle(t, h, request(t, &ipc.QueryEndpointDescription{
		Address:       testAddr,
		Instance:      testInstance,
		EndpointInfo:  info,
		MaximumLength: 5,
	}), &resp)
	require.NoError(t, resp.Err())
	require.NoError(t, resp.Validate())
	assert.Equal(t, uint32(14), resp.TotalLength)
	assert.Equal(t, "Pulse", string(resp.Description))
}

func TestHandleQueryInstancesAppliesTimeout(t *testing.T) {
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().QueryInstances(mock.Anything, testAddr, 4).
		RunAndReturn(func(ctx context.Context, _ hdp.Address, _ int) (int, []hdp.Instance, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "query context has no deadline")
			return 1, []hdp.Instance{testInstance}, nil
		})
	h := NewProtocolHandler(mgr, DefaultConfig().RequestTimeout, nil, nil)

	var resp ipc.QueryInstancesResponse
	handle(t, h, request(t, &ipc.QueryInstances{Address: testAddr, MaximumEntries: 4}), &resp)
	assert.Equal(t, uint32(1), resp.TotalInstances)
	assert.Equal(t, []hdp.Instance{testInstance}, resp.Instances)
}

func TestHandleDropsResponsesAndEvents(t *testing.T) {
	h := NewProtocolHandler(NewMockHealthManager(t), 0, nil, nil)

	ev, err := ipc.NewEvent(3, &ipc.DisconnectedEvent{Address: testAddr, Instance: testInstance})
	require.NoError(t, err)
	assert.Nil(t, h.HandleRequest(context.Background(), 3, ev))

	resp, err := ipc.NewResponse(ipc.Header{MessageID: 1, Function: ipc.FuncConnect}, ipc.StatusResponse{})
	require.NoError(t, err)
	assert.Nil(t, h.HandleRequest(context.Background(), 3, resp))
}

func TestHandleLogsRequestAndResponse(t *testing.T) {
	mgr := NewMockHealthManager(t)
	mgr.EXPECT().DisconnectEndpoint(testOwner, uint32(4)).Return(hdp.ErrInvalidDataLinkID)
	plog := &capturingLogger{}
	h := NewProtocolHandler(mgr, 0, nil, plog)

	var resp ipc.StatusResponse
	handle(t, h, request(t, &ipc.DisconnectEndpoint{DataLinkID: 4}), &resp)

	events := plog.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.DirectionIn, events[0].Direction)
	assert.Equal(t, log.MessageTypeRequest, events[0].Message.Type)
	assert.Equal(t, log.MessageTypeResponse, events[1].Message.Type)
	require.NotNil(t, events[1].Message.Status)
	assert.Equal(t, hdp.CodeOf(hdp.ErrInvalidDataLinkID), *events[1].Message.Status)
	assert.NotNil(t, events[1].Message.ProcessingTime)
	assert.Equal(t, "client-3", events[1].ClientID)
}
