//go:build linux

package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const mprisPrefix = "org.mpris.MediaPlayer2."

// MediaSessionWatcher asks MPRIS players on the session bus whether any of
// them is playing.
type MediaSessionWatcher struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func NewMediaSessionWatcher() (*MediaSessionWatcher, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &MediaSessionWatcher{conn: conn}, nil
}

func (w *MediaSessionWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		err := w.conn.Close()
		w.conn = nil
		return err
	}
	return nil
}

// OtherPlayerActive reports true when any MPRIS player is Playing.
func (w *MediaSessionWatcher) OtherPlayerActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return false
	}

	var names []string
	if err := w.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		Log.Debug().Err(err).Msg("Failed to list D-Bus names")
		return false
	}

	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		if w.playbackStatus(name) == "Playing" {
			return true
		}
	}
	return false
}

func (w *MediaSessionWatcher) playbackStatus(busName string) string {
	obj := w.conn.Object(busName, "/org/mpris/MediaPlayer2")

	var v dbus.Variant
	if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, "org.mpris.MediaPlayer2.Player", "PlaybackStatus").Store(&v); err != nil {
		return ""
	}
	status, _ := v.Value().(string)
	return status
}
