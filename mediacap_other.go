//go:build !linux

package main

import "errors"

// MediaSessionWatcher is only backed by MPRIS on linux.
type MediaSessionWatcher struct{}

func NewMediaSessionWatcher() (*MediaSessionWatcher, error) {
	return nil, errors.New("media session watching is only supported on linux")
}

func (w *MediaSessionWatcher) OtherPlayerActive() bool { return false }
func (w *MediaSessionWatcher) Close() error            { return nil }
