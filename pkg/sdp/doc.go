// Package sdp decodes Bluetooth Service Discovery Protocol data into an
// attribute tree.
//
// A device manager caches the attribute lists returned by a remote device's
// SDP server as a raw byte stream. Decode turns that stream into a
// ServiceResponse: one Record per service, each a list of Attributes whose
// values are Element trees. Profile parsers (see package hdp) walk that tree.
//
// Only decoding is provided. Local records are described with the Element
// constructors and handed to the protocol engine, which owns the encoding.
package sdp
