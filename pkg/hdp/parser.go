package hdp

import (
	"errors"
	"log/slog"

	"github.com/hdpm-project/hdpm-go/pkg/sdp"
)

// FindNextHDPRecord returns the first record at or after *cursor whose
// service class list names HDP Source or HDP Sink. The cursor is always left
// past the last record examined, so repeated calls continue the scan.
func FindNextHDPRecord(resp *sdp.ServiceResponse, cursor *int) (*sdp.Record, error) {
	if resp == nil || cursor == nil || *cursor < 0 {
		return nil, ErrInvalidParameter
	}
	for *cursor < len(resp.Records) {
		rec := &resp.Records[*cursor]
		*cursor++
		if isHDPRecord(rec) {
			return rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

func isHDPRecord(rec *sdp.Record) bool {
	classes, ok := rec.Attr(AttrServiceClassIDList)
	if !ok || !classes.IsSequence() {
		return false
	}
	for _, c := range classes.Elements {
		if sdp.MatchesUUID16(c, UUIDHDPSource) || sdp.MatchesUUID16(c, UUIDHDPSink) {
			return true
		}
	}
	return false
}

// ParseInstanceNumber extracts the control and data PSMs of an HDP record.
//
// The Protocol Descriptor List must be {L2CAP(PSM), MCAP-Control} and the
// Additional Protocol Descriptor Lists must hold exactly one
// {L2CAP(PSM), MCAP-Data} list. Both PSMs must be valid dynamic PSMs.
func ParseInstanceNumber(rec *sdp.Record) (Instance, error) {
	if rec == nil {
		return 0, ErrInvalidParameter
	}

	pdl, ok := rec.Attr(AttrProtocolDescriptorList)
	if !ok {
		return 0, attrError(AttrProtocolDescriptorList, "attribute missing")
	}
	if !pdl.IsSequence() {
		return 0, attrError(AttrProtocolDescriptorList, "not a sequence")
	}
	if pdl.Len() != 2 {
		return 0, attrError(AttrProtocolDescriptorList, "expected two protocol descriptors")
	}
	controlPSM, err := parseL2CAPDescriptor(AttrProtocolDescriptorList, pdl.Elements[0])
	if err != nil {
		return 0, err
	}
	if err := expectProtocol(AttrProtocolDescriptorList, pdl.Elements[1], UUIDMCAPControl); err != nil {
		return 0, err
	}

	apdl, ok := rec.Attr(AttrAdditionalProtocolDescriptors)
	if !ok {
		return 0, attrError(AttrAdditionalProtocolDescriptors, "attribute missing")
	}
	if !apdl.IsSequence() {
		return 0, attrError(AttrAdditionalProtocolDescriptors, "not a sequence")
	}
	if apdl.Len() != 1 {
		return 0, attrError(AttrAdditionalProtocolDescriptors, "expected one additional protocol descriptor list")
	}
	list := apdl.Elements[0]
	if !list.IsSequence() {
		return 0, attrError(AttrAdditionalProtocolDescriptors, "descriptor list is not a sequence")
	}
	if list.Len() != 2 {
		return 0, attrError(AttrAdditionalProtocolDescriptors, "expected two protocol descriptors")
	}
	dataPSM, err := parseL2CAPDescriptor(AttrAdditionalProtocolDescriptors, list.Elements[0])
	if err != nil {
		return 0, err
	}
	if err := expectProtocol(AttrAdditionalProtocolDescriptors, list.Elements[1], UUIDMCAPData); err != nil {
		return 0, err
	}

	instance := NewInstance(controlPSM, dataPSM)
	if !instance.Valid() {
		return 0, attrError(AttrProtocolDescriptorList, "PSM outside the dynamic range")
	}
	return instance, nil
}

func parseL2CAPDescriptor(attr uint16, d sdp.Element) (uint16, error) {
	if !d.IsSequence() || d.Len() < 2 {
		return 0, attrError(attr, "L2CAP descriptor is not a sequence of two elements")
	}
	if !sdp.MatchesUUID16(d.Elements[0], UUIDL2CAP) {
		return 0, attrError(attr, "first protocol is not L2CAP")
	}
	if !d.Elements[1].IsUint(2) {
		return 0, attrError(attr, "L2CAP PSM is not a 16-bit unsigned integer")
	}
	return uint16(d.Elements[1].Uint), nil
}

func expectProtocol(attr uint16, d sdp.Element, protocol uint16) error {
	if !d.IsSequence() || d.Len() < 1 {
		return attrError(attr, "MCAP descriptor is not a sequence")
	}
	if !sdp.MatchesUUID16(d.Elements[0], protocol) {
		return attrError(attr, "unexpected MCAP protocol UUID")
	}
	return nil
}

// FindNumberOfEndpoints counts the well-formed MDEP definitions in the
// Supported Features list. Malformed definitions are skipped.
func FindNumberOfEndpoints(rec *sdp.Record) (int, error) {
	features, err := supportedFeatures(rec)
	if err != nil {
		return 0, err
	}
	count := 0
	for i, entry := range features.Elements {
		if _, err := parseMDEP(entry); err != nil {
			slog.Debug("hdp: skipping malformed MDEP definition", "index", i, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// GetEndpointInfo returns the well-formed MDEP definition at index, counting
// only well-formed definitions.
func GetEndpointInfo(rec *sdp.Record, index int) (MDEP, error) {
	features, err := supportedFeatures(rec)
	if err != nil {
		return MDEP{}, err
	}
	if index < 0 {
		return MDEP{}, ErrInvalidParameter
	}
	for _, entry := range features.Elements {
		mdep, err := parseMDEP(entry)
		if err != nil {
			continue
		}
		if index == 0 {
			return mdep, nil
		}
		index--
	}
	return MDEP{}, ErrEndpointNotFound
}

func supportedFeatures(rec *sdp.Record) (sdp.Element, error) {
	if rec == nil {
		return sdp.Element{}, ErrInvalidParameter
	}
	features, ok := rec.Attr(AttrSupportedFeatures)
	if !ok {
		return sdp.Element{}, attrError(AttrSupportedFeatures, "attribute missing")
	}
	if !features.IsSequence() {
		return sdp.Element{}, attrError(AttrSupportedFeatures, "not a sequence")
	}
	return features, nil
}

// parseMDEP validates {id(1), data type(2), role(1), [description]}.
func parseMDEP(e sdp.Element) (MDEP, error) {
	if !e.IsSequence() || (e.Len() != 3 && e.Len() != 4) {
		return MDEP{}, attrError(AttrSupportedFeatures, "MDEP definition must have three or four elements")
	}
	id, dataType, role := e.Elements[0], e.Elements[1], e.Elements[2]
	if !id.IsUint(1) || !ValidMDEPID(uint8(id.Uint)) {
		return MDEP{}, attrError(AttrSupportedFeatures, "MDEP id is not a one byte value in 1..0x7F")
	}
	if !dataType.IsUint(2) {
		return MDEP{}, attrError(AttrSupportedFeatures, "MDEP data type is not a 16-bit unsigned integer")
	}
	if !role.IsUint(1) {
		return MDEP{}, attrError(AttrSupportedFeatures, "MDEP role is not a one byte value")
	}
	if !Role(role.Uint).Valid() {
		return MDEP{}, attrError(AttrSupportedFeatures, "MDEP role is neither source nor sink")
	}

	mdep := MDEP{EndpointInfo: EndpointInfo{
		EndpointID: uint8(id.Uint),
		DataType:   uint16(dataType.Uint),
		Role:       Role(role.Uint),
	}}
	if e.Len() == 4 {
		desc, ok := e.Elements[3].Text()
		if !ok {
			return MDEP{}, attrError(AttrSupportedFeatures, "MDEP description is not a text string")
		}
		mdep.Description = desc
		mdep.HasDescription = true
	}
	return mdep, nil
}

// ParseInstances counts the HDP instances in resp and copies up to len(out)
// of them into out. Records that are not well-formed HDP records are
// skipped. Pass a nil out to size a buffer.
func ParseInstances(resp *sdp.ServiceResponse, out []Instance) (int, error) {
	if resp == nil {
		return 0, ErrInvalidParameter
	}
	total := 0
	cursor := 0
	for {
		rec, err := FindNextHDPRecord(resp, &cursor)
		if errors.Is(err, ErrRecordNotFound) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		instance, err := ParseInstanceNumber(rec)
		if err != nil {
			slog.Debug("hdp: skipping HDP record", "index", cursor-1, "error", err)
			continue
		}
		if total < len(out) {
			out[total] = instance
		}
		total++
	}
}

// FindInstanceRecord returns the HDP record published for instance.
func FindInstanceRecord(resp *sdp.ServiceResponse, instance Instance) (*sdp.Record, error) {
	if resp == nil || !instance.Valid() {
		return nil, ErrInvalidParameter
	}
	cursor := 0
	for {
		rec, err := FindNextHDPRecord(resp, &cursor)
		if err != nil {
			return nil, err
		}
		if got, err := ParseInstanceNumber(rec); err == nil && got == instance {
			return rec, nil
		}
	}
}

// ParseEndpoints counts the endpoints of instance and copies up to len(out)
// of them into out.
func ParseEndpoints(resp *sdp.ServiceResponse, instance Instance, out []EndpointInfo) (int, error) {
	rec, err := FindInstanceRecord(resp, instance)
	if err != nil {
		return 0, err
	}
	total, err := FindNumberOfEndpoints(rec)
	if err != nil {
		return 0, err
	}
	for i := 0; i < total && i < len(out); i++ {
		mdep, err := GetEndpointInfo(rec, i)
		if err != nil {
			return 0, err
		}
		out[i] = mdep.EndpointInfo
	}
	return total, nil
}

// FindEndpointInfo returns the index of the first endpoint of instance, at
// or after start, whose MDEP id is mdepID. Passing the previous result plus
// one continues past duplicate ids.
func FindEndpointInfo(resp *sdp.ServiceResponse, instance Instance, start int, mdepID uint8) (int, MDEP, error) {
	if start < 0 || !ValidMDEPID(mdepID) {
		return 0, MDEP{}, ErrInvalidParameter
	}
	rec, err := FindInstanceRecord(resp, instance)
	if err != nil {
		return 0, MDEP{}, err
	}
	total, err := FindNumberOfEndpoints(rec)
	if err != nil {
		return 0, MDEP{}, err
	}
	for i := start; i < total; i++ {
		mdep, err := GetEndpointInfo(rec, i)
		if err != nil {
			return 0, MDEP{}, err
		}
		if mdep.EndpointID == mdepID {
			return i, mdep, nil
		}
	}
	return 0, MDEP{}, ErrEndpointNotFound
}

func attrError(attr uint16, reason string) error {
	return &ParseError{Attribute: attr, Reason: reason}
}
