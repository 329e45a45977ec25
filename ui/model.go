// Package ui implements the Bubbletea terminal demo harness that
// drives a Control Surface the way a real shell would: every action
// is a Surface method call, never a direct reach into the engine or
// library packages.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurelia-audio/aurelia/internal/control"
)

type focusArea int

const (
	focusPlaylist focusArea = iota
	focusEQ
)

type tickMsg time.Time

// Model is the Bubbletea model for the terminal demo harness.
type Model struct {
	surface *control.Surface
	vis     *Visualizer

	focus     focusArea
	eqCursor  int // selected EQ band (0-9)
	plCursor  int // selected playlist item
	plScroll  int // scroll offset for playlist view
	plVisible int // max visible playlist items
	titleOff  int // scroll offset for long track titles

	track    control.TrackInfo
	autoPlay bool
	mini     bool

	err      error
	quitting bool
	width    int
	height   int
}

// NewModel creates a Model driving surface. The playlist must already
// be populated (Surface.RefreshPlaylist) before the program starts.
func NewModel(surface *control.Surface, autoPlay, mini bool) Model {
	return Model{
		surface:   surface,
		vis:       NewVisualizer(),
		plVisible: 5,
		autoPlay:  autoPlay,
		mini:      mini,
	}
}

// Init starts the tick timer, requests the terminal size, and kicks
// off autoplay of the first playlist entry if requested.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), tea.WindowSize()}
	if m.autoPlay && m.surface.PlaylistIndex() >= 0 {
		cmds = append(cmds, m.loadCurrentCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// trackLoadedMsg carries the result of an async load_track call back
// into Update, since LoadTrack can block on file I/O and must not run
// on the Bubbletea update goroutine.
type trackLoadedMsg struct {
	info control.TrackInfo
	err  error
}

func (m Model) loadCurrentCmd() tea.Cmd {
	return func() tea.Msg {
		track, idx := m.surface.PlaylistCurrent()
		if idx < 0 {
			return trackLoadedMsg{}
		}
		info, err := m.surface.LoadTrack(track.Path)
		if err == nil {
			m.surface.Play()
		}
		return trackLoadedMsg{info: info, err: err}
	}
}

// Update handles messages: key presses, ticks, and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case trackLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.track = msg.info
		m.titleOff = 0
		m.plCursor = m.surface.PlaylistIndex()
		m.adjustScroll()

	case tickMsg:
		if m.surface.IsPlaying() && m.surface.TrackFinished() {
			return m, tea.Batch(tickCmd(), m.nextTrackCmd())
		}
		m.titleOff++
		return m, tickCmd()
	}

	return m, nil
}

// nextTrackCmd advances the play order and issues the load for the
// new current track; it pauses instead when the list has no next
// entry (end of list with repeat off).
func (m *Model) nextTrackCmd() tea.Cmd {
	if _, ok := m.surface.NextTrack(); !ok {
		m.surface.Pause()
		return nil
	}
	m.plCursor = m.surface.PlaylistIndex()
	m.adjustScroll()
	return m.loadCurrentCmd()
}

// prevTrackCmd restarts the current track if more than three seconds
// in, otherwise moves to the previous playlist entry, matching the
// usual "back" behavior of a physical transport control.
func (m *Model) prevTrackCmd() tea.Cmd {
	if m.surface.Position() > 3*time.Second {
		m.surface.Seek(0)
		return nil
	}
	if _, ok := m.surface.PreviousTrack(); !ok {
		return nil
	}
	m.plCursor = m.surface.PlaylistIndex()
	m.adjustScroll()
	return m.loadCurrentCmd()
}

// adjustScroll ensures plCursor is visible in the playlist view.
func (m *Model) adjustScroll() {
	if m.plCursor < m.plScroll {
		m.plScroll = m.plCursor
	}
	if m.plCursor >= m.plScroll+m.plVisible {
		m.plScroll = m.plCursor - m.plVisible + 1
	}
}

func (m Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return nil

	case " ":
		if m.surface.IsPlaying() {
			m.surface.Pause()
		} else {
			m.surface.Play()
		}

	case "n":
		return m.nextTrackCmd()

	case "p":
		return m.prevTrackCmd()

	case "left":
		pos := m.surface.Position() - 5*time.Second
		m.surface.Seek(pos.Seconds())

	case "right":
		pos := m.surface.Position() + 5*time.Second
		m.surface.Seek(pos.Seconds())

	case "+", "=":
		m.surface.SetVolume(float32(min(1, m.surface.Volume()+0.05)))

	case "-":
		m.surface.SetVolume(float32(max(0, m.surface.Volume()-0.05)))

	case "s":
		m.surface.ToggleShuffle(!m.surface.PlaylistShuffled())

	case "r":
		m.surface.CycleRepeat()

	case "tab":
		if m.focus == focusPlaylist {
			m.focus = focusEQ
		} else {
			m.focus = focusPlaylist
		}

	case "up":
		m.moveCursor(-1)

	case "down":
		m.moveCursor(1)

	case "enter":
		if m.focus == focusPlaylist {
			return m.selectPlaylistCursorCmd()
		}
	}
	return nil
}

// selectPlaylistCursorCmd walks the play order forward until its
// current position matches plCursor, then loads that track. The
// playlist only exposes sequential Next/Prev, so an arbitrary jump is
// expressed as repeated Next calls from the current position.
func (m *Model) selectPlaylistCursorCmd() tea.Cmd {
	n := len(m.surface.PlaylistTracks())
	if n == 0 || m.plCursor >= n {
		return nil
	}
	for m.surface.PlaylistIndex() != m.plCursor {
		if _, ok := m.surface.NextTrack(); !ok {
			break
		}
	}
	return m.loadCurrentCmd()
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case focusEQ:
		m.eqCursor = clampInt(m.eqCursor+delta, 0, 9)
	case focusPlaylist:
		n := len(m.surface.PlaylistTracks())
		if n == 0 {
			return
		}
		m.plCursor = clampInt(m.plCursor+delta, 0, n-1)
		m.adjustScroll()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
