package ipc

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// Result is the status every response carries: zero on success, otherwise
// the negative error code of the failure.
type Result struct {
	Status int32 `cbor:"1,keyasint"`
}

// Err returns the error for the status, or nil on success.
func (r Result) Err() error { return hdp.ErrorForCode(r.Status) }

// Code returns the raw status.
func (r Result) Code() int32 { return r.Status }

// ResultOf returns the Result for err.
func ResultOf(err error) Result { return Result{Status: hdp.CodeOf(err)} }

// StatusResponse answers requests that return only a status.
type StatusResponse struct {
	Result
}

// RegisterEndpointResponse carries the id of a registered endpoint.
type RegisterEndpointResponse struct {
	Result
	EndpointID uint8 `cbor:"2,keyasint"`
}

// QueryInstancesResponse lists remote instances. TotalInstances may exceed
// the number of entries returned.
type QueryInstancesResponse struct {
	Result
	TotalInstances uint32         `cbor:"2,keyasint"`
	Instances      []hdp.Instance `cbor:"3,keyasint"`
}

// QueryEndpointsResponse lists the endpoints of a remote instance.
type QueryEndpointsResponse struct {
	Result
	TotalEndpoints uint32             `cbor:"2,keyasint"`
	Endpoints      []hdp.EndpointInfo `cbor:"3,keyasint"`
}

// QueryEndpointDescriptionResponse carries an endpoint description, possibly
// truncated to the requested maximum.
type QueryEndpointDescriptionResponse struct {
	Result
	TotalLength       uint32 `cbor:"2,keyasint"`
	DescriptionLength uint32 `cbor:"3,keyasint"`
	Description       []byte `cbor:"4,keyasint"`
}

// Validate checks that the description length matches the description.
func (r QueryEndpointDescriptionResponse) Validate() error {
	return checkLength("description", r.DescriptionLength, r.Description)
}

// ConnectEndpointResponse carries the id of a data channel being opened.
type ConnectEndpointResponse struct {
	Result
	DataLinkID uint32 `cbor:"2,keyasint"`
}
