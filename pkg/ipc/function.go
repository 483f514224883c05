package ipc

import "fmt"

// Function selects the request, response or event carried by a message.
type Function uint32

// Request functions. The response to a request uses the same function.
const (
	FuncRegisterEndpoint              Function = 0x1001
	FuncUnregisterEndpoint            Function = 0x1002
	FuncDataConnectionRequestResponse Function = 0x1003
	FuncQueryInstances                Function = 0x1004
	FuncQueryEndpoints                Function = 0x1005
	FuncQueryEndpointDescription      Function = 0x1006
	FuncConnect                       Function = 0x1007
	FuncDisconnect                    Function = 0x1008
	FuncConnectEndpoint               Function = 0x1009
	FuncDisconnectEndpoint            Function = 0x100A
	FuncWriteData                     Function = 0x100B
)

// Event functions.
const (
	EventConnectionStatus              Function = 0x10001
	EventDisconnected                  Function = 0x10002
	EventIncomingDataConnectionRequest Function = 0x10003
	EventDataConnected                 Function = 0x10004
	EventDataDisconnected              Function = 0x10005
	EventDataConnectionStatus          Function = 0x10006
	EventDataReceived                  Function = 0x10007
)

var functionNames = map[Function]string{
	FuncRegisterEndpoint:               "RegisterEndpoint",
	FuncUnregisterEndpoint:             "UnregisterEndpoint",
	FuncDataConnectionRequestResponse:  "DataConnectionRequestResponse",
	FuncQueryInstances:                 "QueryInstances",
	FuncQueryEndpoints:                 "QueryEndpoints",
	FuncQueryEndpointDescription:       "QueryEndpointDescription",
	FuncConnect:                        "Connect",
	FuncDisconnect:                     "Disconnect",
	FuncConnectEndpoint:                "ConnectEndpoint",
	FuncDisconnectEndpoint:             "DisconnectEndpoint",
	FuncWriteData:                      "WriteData",
	EventConnectionStatus:              "ConnectionStatusEvent",
	EventDisconnected:                  "DisconnectedEvent",
	EventIncomingDataConnectionRequest: "IncomingDataConnectionRequestEvent",
	EventDataConnected:                 "DataConnectedEvent",
	EventDataDisconnected:              "DataDisconnectedEvent",
	EventDataConnectionStatus:          "DataConnectionStatusEvent",
	EventDataReceived:                  "DataReceivedEvent",
}

// Known reports whether f is a defined function.
func (f Function) Known() bool {
	_, ok := functionNames[f]
	return ok
}

// IsEvent reports whether f is an event function.
func (f Function) IsEvent() bool {
	return f >= EventConnectionStatus && f <= EventDataReceived
}

// String returns the function name.
func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(0x%X)", uint32(f))
}
