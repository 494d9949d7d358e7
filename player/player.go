package player

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/asciiplay/convert"
	"go.jacobcolvin.com/asciiplay/decode"
	"go.jacobcolvin.com/asciiplay/notify"
)

const helpText = `Playback controls

space  pause / resume
q, esc quit
+, =   speed up
-      slow down
l      toggle loop
r      restart
h      toggle this help`

// Options configures a playback [Model].
type Options struct {
	Stream    *decode.Stream
	Converter *convert.Converter
	Notifier  *notify.Notifier // Optional.
	Filename  string

	State State

	// Initial terminal size and whether each dimension was fixed on the
	// command line (fixed dimensions ignore resize events).
	Cols, Rows           int
	FixedCols, FixedRows bool
}

// frameMsg carries a decoded frame from the stream.
type frameMsg struct {
	gen   int
	frame *decode.Frame
}

// streamDoneMsg signals that the stream stopped producing frames.
// err is [io.EOF] on normal exhaustion.
type streamDoneMsg struct {
	gen int
	err error
}

// tickMsg wakes the model to check whether a frame is due. seq invalidates
// ticks scheduled before the pacing parameters last changed.
type tickMsg struct {
	seq int
}

// Model is the Bubble Tea model driving playback. All state mutation
// happens inside Update.
type Model struct {
	stream   *decode.Stream
	conv     *convert.Converter
	notifier *notify.Notifier
	filename string

	state State
	clock *Clock

	cols, rows           int
	fixedCols, fixedRows bool

	// gen counts stream restarts; messages from a previous generation's
	// read are stale and dropped.
	gen     int
	tickSeq int
	reading bool

	pending *decode.Frame  // Decoded but not yet due.
	lastSrc *decode.Frame  // Source of the frame currently on screen.
	current *convert.Frame // Frame currently on screen.

	showHelp    bool
	done        bool
	err         error
	framesShown uint64
	buf         strings.Builder
}

// New creates a playback model.
func New(opts Options) *Model {
	return &Model{
		stream:    opts.Stream,
		conv:      opts.Converter,
		notifier:  opts.Notifier,
		filename:  opts.Filename,
		state:     opts.State,
		clock:     NewClock(opts.Stream.Info().FPS),
		cols:      opts.Cols,
		rows:      opts.Rows,
		fixedCols: opts.FixedCols,
		fixedRows: opts.FixedRows,
	}
}

// Err returns the fatal playback error, if any, once the program has exited.
func (m *Model) Err() error {
	return m.err
}

// FramesShown returns how many frames were presented.
func (m *Model) FramesShown() uint64 {
	return m.framesShown
}

// Init starts the first frame read.
func (m *Model) Init() tea.Cmd {
	m.reading = true

	return m.readFrame()
}

// Update handles key, resize, frame, and pacing messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		if !m.fixedCols {
			m.cols = msg.Width
		}

		if !m.fixedRows {
			m.rows = msg.Height
		}

		// Reconvert the on-screen frame so a resize takes effect even while
		// paused. The next scheduled frame picks up the new size anyway.
		if m.lastSrc != nil {
			m.current = m.conv.Convert(m.lastSrc.RGBA, m.cols, m.rows-1)
		}

		return m, nil

	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}

		m.reading = false
		m.pending = msg.frame

		return m, m.present(time.Now())

	case streamDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}

		m.reading = false

		return m, m.handleStreamDone(msg.err)

	case tickMsg:
		if msg.seq != m.tickSeq {
			return m, nil
		}

		return m, m.present(time.Now())
	}

	return m, nil
}

// View renders the current frame (or the help overlay) with a status line
// on the bottom row.
func (m *Model) View() tea.View {
	if m.showHelp {
		renderMessage(&m.buf, helpText, m.cols, m.rows)
	} else {
		renderFrame(&m.buf, m.current, m.cols, m.rows, m.state.Transparent, m.statusLine())
	}

	v := tea.NewView(m.buf.String())
	v.AltScreen = true

	return v
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	now := time.Now()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.done = true

		return tea.Quit

	case " ", "space":
		if m.state.TogglePause() {
			slog.Debug("playback paused")

			return m.notifyCmd(func(n *notify.Notifier) { n.Paused(m.filename) })
		}

		slog.Debug("playback resumed")
		m.clock.Reset(now)

		return tea.Batch(
			m.notifyCmd(func(n *notify.Notifier) { n.Playing(m.filename) }),
			m.present(now),
		)

	case "+", "=":
		if m.state.SpeedUp() {
			slog.Debug("speed changed", "speed", m.state.Speed)
			m.clock.Reset(now)
		}

		return m.present(now)

	case "-":
		if m.state.SpeedDown() {
			slog.Debug("speed changed", "speed", m.state.Speed)
			m.clock.Reset(now)
		}

		return m.present(now)

	case "l":
		m.state.ToggleLoop()

		return nil

	case "r":
		return m.restart(now)

	case "h":
		m.showHelp = !m.showHelp

		return nil
	}

	return nil
}

// handleStreamDone reacts to stream exhaustion or a mid-stream decode
// failure. With looping enabled both rewind and continue; otherwise the
// program exits, fatally for decode errors.
func (m *Model) handleStreamDone(err error) tea.Cmd {
	if !errors.Is(err, io.EOF) {
		if m.state.Loop {
			slog.Warn("decode error, restarting loop", "error", err)

			return m.restart(time.Now())
		}

		m.err = fmt.Errorf("playback failed: %w", err)
		m.done = true

		return tea.Quit
	}

	if m.state.Loop {
		slog.Debug("end of stream, looping")

		return m.restart(time.Now())
	}

	slog.Debug("end of stream")
	m.done = true

	return tea.Quit
}

// restart rewinds the stream to its first frame and re-anchors the clock.
func (m *Model) restart(now time.Time) tea.Cmd {
	err := m.stream.Restart()
	if err != nil {
		m.err = err
		m.done = true

		return tea.Quit
	}

	m.gen++
	m.pending = nil
	m.reading = true
	m.clock.Reset(now)

	return m.readFrame()
}

// present shows the pending frame if one is due, then arranges the next
// wake-up: a frame read when the pipeline is drained, a bounded tick when
// the next frame is not yet due.
func (m *Model) present(now time.Time) tea.Cmd {
	if m.done || m.state.Paused {
		return nil
	}

	var cmds []tea.Cmd

	if m.pending != nil && m.clock.Due(now, m.state.Speed) {
		m.lastSrc = m.pending
		m.pending = nil
		m.current = m.conv.Convert(m.lastSrc.RGBA, m.cols, m.rows-1)
		m.clock.Advance(now, m.state.Speed)
		m.framesShown++

		if !m.reading {
			m.reading = true
			cmds = append(cmds, m.readFrame())
		}
	}

	if m.pending != nil {
		cmds = append(cmds, m.tick(m.clock.Delay(now, m.state.Speed)))
	}

	return tea.Batch(cmds...)
}

// readFrame pulls the next frame off the stream in a command so the decoder
// read never blocks the event loop.
func (m *Model) readFrame() tea.Cmd {
	gen := m.gen
	stream := m.stream

	return func() tea.Msg {
		frame, err := stream.Next()
		if err != nil {
			return streamDoneMsg{gen: gen, err: err}
		}

		return frameMsg{gen: gen, frame: frame}
	}
}

// tick schedules a pacing wake-up, invalidating any earlier pending tick.
func (m *Model) tick(d time.Duration) tea.Cmd {
	m.tickSeq++
	seq := m.tickSeq

	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// notifyCmd runs a status-bar notification off the event loop. Failures are
// the notifier's problem; playback never waits on them.
func (m *Model) notifyCmd(fn func(*notify.Notifier)) tea.Cmd {
	if m.notifier == nil {
		return nil
	}

	n := m.notifier

	return func() tea.Msg {
		fn(n)

		return nil
	}
}

// statusLine formats the bottom status row.
func (m *Model) statusLine() string {
	info := m.stream.Info()

	timestamp := 0.0
	frameNum := uint64(0)

	if m.lastSrc != nil {
		timestamp = m.lastSrc.Timestamp
		frameNum = m.lastSrc.Number
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s | frame %d | %.1fs", m.filename, frameNum, timestamp)

	if info.Duration > 0 {
		progress := min(timestamp/info.Duration*100, 100)
		fmt.Fprintf(&b, "/%.1fs (%.0f%%)", info.Duration, progress)
	}

	fmt.Fprintf(&b, " | %.2fx | %.1f fps", m.state.Speed, info.FPS)

	if m.state.Paused {
		b.WriteString(" | paused")
	}

	if m.state.Loop {
		b.WriteString(" | loop")
	}

	b.WriteString(" | h for help")

	return b.String()
}
