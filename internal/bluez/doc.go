// Package bluez implements devm.DeviceManager on top of the BlueZ daemon's
// D-Bus API.
//
// Links are brought up with org.bluez.Device1 Pair and Connect; power and
// link loss are followed through PropertiesChanged signals on the adapter
// and its devices. BlueZ does not expose raw SDP records over D-Bus, so
// remote service queries are answered from a devm.ServiceCache that is
// filled out of band. The extended inquiry response is derived by BlueZ
// from the registered service records; UpdateLocalServiceClasses only
// records the requested list.
package bluez
