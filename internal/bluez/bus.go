package bluez

import (
	"context"
	"errors"
	"fmt"

	dbus "github.com/godbus/dbus/v5"
)

const (
	bluezService = "org.bluez"
	adapterIface = "org.bluez.Adapter1"
	deviceIface  = "org.bluez.Device1"
	propsIface   = "org.freedesktop.DBus.Properties"

	propertiesChanged = propsIface + ".PropertiesChanged"
)

// bus is the part of the system bus the device manager uses.
type bus interface {
	Call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) error
	Property(path dbus.ObjectPath, iface, name string) (dbus.Variant, error)
	Subscribe(ch chan<- *dbus.Signal) error
	Close() error
}

type systemBus struct {
	conn *dbus.Conn
}

func dialSystemBus(ctx context.Context) (*systemBus, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("bluez: connect system bus: %w", err)
	}
	return &systemBus{conn: conn}, nil
}

func (b *systemBus) Call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) error {
	return b.conn.Object(bluezService, path).CallWithContext(ctx, method, 0, args...).Err
}

func (b *systemBus) Property(path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	return b.conn.Object(bluezService, path).GetProperty(iface + "." + name)
}

func (b *systemBus) Subscribe(ch chan<- *dbus.Signal) error {
	if err := b.conn.AddMatchSignal(
		dbus.WithMatchSender(bluezService),
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("bluez: AddMatchSignal: %w", err)
	}
	b.conn.Signal(ch)
	return nil
}

func (b *systemBus) Close() error {
	return b.conn.Close()
}

// errorName returns the D-Bus error name carried by err, or "".
func errorName(err error) string {
	var v dbus.Error
	if errors.As(err, &v) {
		return v.Name
	}
	var p *dbus.Error
	if errors.As(err, &p) && p != nil {
		return p.Name
	}
	return ""
}
