package hdp

import "github.com/hdpm-project/hdpm-go/pkg/sdp"

// BuildRecord describes the service record an HDP instance publishes:
// service classes for the roles present in mdeps, the MCAP control and data
// protocol descriptors for instance, and one Supported Features entry per
// MDEP.
func BuildRecord(instance Instance, mdeps []MDEP, serviceName, providerName string) []sdp.Attribute {
	var classes []sdp.Element
	var hasSource, hasSink bool
	for _, m := range mdeps {
		switch m.Role {
		case RoleSource:
			hasSource = true
		case RoleSink:
			hasSink = true
		}
	}
	if hasSource {
		classes = append(classes, sdp.UUID16(UUIDHDPSource))
	}
	if hasSink {
		classes = append(classes, sdp.UUID16(UUIDHDPSink))
	}

	features := make([]sdp.Element, 0, len(mdeps))
	for _, m := range mdeps {
		entry := []sdp.Element{
			sdp.Uint8(m.EndpointID),
			sdp.Uint16(m.DataType),
			sdp.Uint8(uint8(m.Role)),
		}
		if m.Description != "" {
			entry = append(entry, sdp.TextString(m.Description))
		}
		features = append(features, sdp.Seq(entry...))
	}

	return []sdp.Attribute{
		{ID: AttrServiceClassIDList, Value: sdp.Seq(classes...)},
		{ID: AttrProtocolDescriptorList, Value: sdp.Seq(
			sdp.Seq(sdp.UUID16(UUIDL2CAP), sdp.Uint16(instance.ControlPSM())),
			sdp.Seq(sdp.UUID16(UUIDMCAPControl), sdp.Uint16(0x0100)),
		)},
		{ID: AttrBluetoothProfileDescriptorList, Value: sdp.Seq(
			sdp.Seq(sdp.UUID16(UUIDHDP), sdp.Uint16(0x0101)),
		)},
		{ID: AttrAdditionalProtocolDescriptors, Value: sdp.Seq(
			sdp.Seq(
				sdp.Seq(sdp.UUID16(UUIDL2CAP), sdp.Uint16(instance.DataPSM())),
				sdp.Seq(sdp.UUID16(UUIDMCAPData)),
			),
		)},
		{ID: AttrServiceName, Value: sdp.TextString(serviceName)},
		{ID: AttrProviderName, Value: sdp.TextString(providerName)},
		{ID: AttrSupportedFeatures, Value: sdp.Seq(features...)},
		{ID: AttrDataExchangeSpecification, Value: sdp.Uint8(0x01)},
		{ID: AttrMCAPSupportedProcedures, Value: sdp.Uint8(0x00)},
	}
}
