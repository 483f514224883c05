package hdp

// Service class and protocol UUIDs (16-bit aliases).
const (
	UUIDHDP         uint16 = 0x1400
	UUIDHDPSource   uint16 = 0x1401
	UUIDHDPSink     uint16 = 0x1402
	UUIDL2CAP       uint16 = 0x0100
	UUIDMCAPControl uint16 = 0x001E
	UUIDMCAPData    uint16 = 0x001F
)

// Service record attribute IDs used by HDP.
const (
	AttrServiceRecordHandle            uint16 = 0x0000
	AttrServiceClassIDList             uint16 = 0x0001
	AttrProtocolDescriptorList         uint16 = 0x0004
	AttrBluetoothProfileDescriptorList uint16 = 0x0009
	AttrAdditionalProtocolDescriptors  uint16 = 0x000D
	AttrServiceName                    uint16 = 0x0100
	AttrServiceDescription             uint16 = 0x0101
	AttrProviderName                   uint16 = 0x0102
	AttrSupportedFeatures              uint16 = 0x0200
	AttrDataExchangeSpecification      uint16 = 0x0301
	AttrMCAPSupportedProcedures        uint16 = 0x0302
)

// PSM and MDEP ranges.
const (
	MinDynamicPSM uint16 = 0x1001

	// DefaultControlPSM and DefaultDataPSM are tried first when the local
	// instance is registered.
	DefaultControlPSM uint16 = 0x1001
	DefaultDataPSM    uint16 = 0x1003

	MinMDEPID uint8 = 0x01
	MaxMDEPID uint8 = 0x7F
)

// Defaults for the published local service record.
const (
	DefaultServiceName  = "HDP Service"
	DefaultProviderName = "hdpm"
)
