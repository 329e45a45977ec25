package control

import "github.com/aurelia-audio/aurelia/internal/engine"

// WireEvent is the shell-facing shape of every event the Control
// Surface forwards, named per spec.md §6's event table.
type WireEvent struct {
	Kind string

	// playback-fault
	Code    string
	Message string

	// library-changed
	Added   []string
	Removed []string
	Updated []string

	// lyrics-line-changed
	LyricsIndex     *int
	LyricsTimestamp *int64
	LyricsText      *string
}

// toWireEvent translates an internal engine.Event into the shell's
// event vocabulary; unknown event types are dropped rather than
// panicking, since new internal event types should not crash a shell
// built against an older version of this surface.
func toWireEvent(ev engine.Event) (WireEvent, bool) {
	switch e := ev.(type) {
	case engine.PlaybackFault:
		return WireEvent{Kind: "playback-fault", Code: e.Code, Message: e.Message}, true
	case engine.DeviceLost:
		return WireEvent{Kind: "device-lost"}, true
	case engine.LibraryChanged:
		return WireEvent{Kind: "library-changed", Added: e.Added, Removed: e.Removed, Updated: e.Updated}, true
	case engine.LyricsLineChanged:
		return WireEvent{
			Kind:            "lyrics-line-changed",
			LyricsIndex:     e.Index,
			LyricsTimestamp: e.Timestamp,
			LyricsText:      e.Text,
		}, true
	default:
		return WireEvent{}, false
	}
}

// Events returns a channel of shell-facing events; buffer sizes the
// subscriber's drop-on-full channel (see engine.Bus.Publish).
func (s *Surface) Events(buffer int) <-chan WireEvent {
	raw := s.eng.Events(buffer)
	out := make(chan WireEvent, buffer)
	go func() {
		defer close(out)
		for ev := range raw {
			if we, ok := toWireEvent(ev); ok {
				select {
				case out <- we:
				default:
				}
			}
		}
	}()
	return out
}
