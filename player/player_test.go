package player

import (
	"errors"
	"image"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/convert"
	"go.jacobcolvin.com/asciiplay/decode"
)

// newTestModel builds a model around the given stream. Tests that never
// touch the decoder can pass a zero-value stream.
func newTestModel(stream *decode.Stream, loop bool) *Model {
	return New(Options{
		Stream:    stream,
		Converter: convert.New(convert.Config{}),
		Filename:  "test.mp4",
		State:     NewState(1, loop, false),
		Cols:      40,
		Rows:      12,
	})
}

// openTestStream decodes a short synthetic ffmpeg clip, skipping when
// ffmpeg is not installed.
func openTestStream(t *testing.T) *decode.Stream {
	t.Helper()

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}

	path := filepath.Join(t.TempDir(), "test.mp4")

	out, err := exec.CommandContext(t.Context(), "ffmpeg",
		"-v", "error",
		"-f", "lavfi",
		"-i", "testsrc=duration=1:size=64x48:rate=10",
		"-pix_fmt", "yuv420p",
		path,
	).CombinedOutput()
	require.NoError(t, err, "generating test video: %s", out)

	stream, err := decode.Open(t.Context(), path, decode.Options{})
	require.NoError(t, err)

	t.Cleanup(func() { _ = stream.Close() })

	return stream
}

// isQuit reports whether cmd resolves to a quit message.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func testSourceFrame() *decode.Frame {
	return &decode.Frame{RGBA: image.NewRGBA(image.Rect(0, 0, 8, 8))}
}

func TestUpdateEOFQuitsWithoutLoop(t *testing.T) {
	t.Parallel()

	m := newTestModel(&decode.Stream{}, false)

	_, cmd := m.Update(streamDoneMsg{gen: 0, err: io.EOF})

	assert.True(t, isQuit(cmd))
	assert.True(t, m.done)
	require.NoError(t, m.Err())
}

func TestUpdateDecodeErrorFatalWithoutLoop(t *testing.T) {
	t.Parallel()

	m := newTestModel(&decode.Stream{}, false)

	decodeErr := errors.New("broken pipe")

	_, cmd := m.Update(streamDoneMsg{gen: 0, err: decodeErr})

	assert.True(t, isQuit(cmd))
	require.ErrorIs(t, m.Err(), decodeErr)
}

func TestUpdatePresentsFrame(t *testing.T) {
	t.Parallel()

	m := newTestModel(&decode.Stream{}, false)

	frame := testSourceFrame()

	_, cmd := m.Update(frameMsg{gen: 0, frame: frame})

	// The first frame is immediately due: it is converted, counted, and the
	// next read is scheduled.
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.FramesShown())
	assert.Same(t, frame, m.lastSrc)
	require.NotNil(t, m.current)
	assert.Positive(t, m.current.Width)
}

// Messages from before a restart carry a stale generation and must be
// dropped without touching playback state.
func TestUpdateDropsStaleMessages(t *testing.T) {
	t.Parallel()

	m := newTestModel(&decode.Stream{}, false)
	m.gen = 1

	_, cmd := m.Update(frameMsg{gen: 0, frame: testSourceFrame()})

	assert.Nil(t, cmd)
	assert.Nil(t, m.pending)
	assert.Zero(t, m.FramesShown())

	_, cmd = m.Update(streamDoneMsg{gen: 0, err: errors.New("stale pipe")})

	assert.Nil(t, cmd)
	assert.False(t, m.done)
	require.NoError(t, m.Err())
}

func TestUpdateEOFRestartsWithLoop(t *testing.T) {
	t.Parallel()

	m := newTestModel(openTestStream(t), true)

	_, cmd := m.Update(streamDoneMsg{gen: 0, err: io.EOF})

	require.NoError(t, m.Err())
	assert.False(t, m.done)
	assert.Equal(t, 1, m.gen)
	require.NotNil(t, cmd)

	// The returned command reads the rewound stream's first frame under the
	// new generation.
	msg, ok := cmd().(frameMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.gen)
	assert.Zero(t, msg.frame.Number)
}

func TestUpdateDecodeErrorRestartsWithLoop(t *testing.T) {
	t.Parallel()

	m := newTestModel(openTestStream(t), true)

	_, cmd := m.Update(streamDoneMsg{gen: 0, err: errors.New("mid-stream failure")})

	require.NoError(t, m.Err())
	assert.False(t, m.done)
	assert.Equal(t, 1, m.gen)
	require.NotNil(t, cmd)

	msg, ok := cmd().(frameMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.gen)
}
