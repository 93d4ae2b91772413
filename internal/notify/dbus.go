//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without a session bus every
// notification is silently dropped.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopNotifier{}, nil //nolint:nilerr // no session bus, nothing to notify
	}
	return &busNotifier{obj: conn.Object(notificationsName, notificationsPath)}, nil
}

func (b *busNotifier) method(name string) string {
	return notificationsName + "." + name
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appID),
	}
	var id uint32
	err := b.obj.Call(b.method("Notify"), 0,
		appName, n.ReplacesID, n.Icon, n.Title, n.Body,
		[]string{}, hints, n.Timeout,
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(b.method("CloseNotification"), 0, id).Err
}
