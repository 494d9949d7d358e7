package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// Sentinel errors returned by the decoder.
var (
	// ErrDecoderUnavailable indicates ffmpeg or ffprobe is not installed.
	ErrDecoderUnavailable = errors.New("decoder unavailable")
	// ErrOpen indicates the file could not be opened or probed as video.
	ErrOpen = errors.New("open video")
	// ErrDecode indicates a failure while reading frames mid-stream.
	ErrDecode = errors.New("decode video")
	// ErrClosed indicates use of a closed stream.
	ErrClosed = errors.New("stream closed")
)

// Options trims and paces the decoded stream.
type Options struct {
	// StartTime seeks to this offset in seconds before the first frame.
	StartTime float64
	// EndTime stops the stream at this offset in seconds. Zero plays to the
	// end of the file.
	EndTime float64
	// FPSCap re-times the stream to at most this many frames per second.
	// Zero keeps the source frame rate.
	FPSCap float64
}

// Frame is one decoded video frame.
type Frame struct {
	// RGBA holds the pixel data at source resolution.
	RGBA *image.RGBA
	// Timestamp is the presentation time in seconds from stream start.
	Timestamp float64
	// Number counts frames from zero since the last (re)start.
	Number uint64
}

// Stream is a restartable pull-based frame sequence over an ffmpeg pipe.
//
// Next may be called from a different goroutine than Restart and Close; the
// stream serializes access to the underlying process. Frames are delivered
// strictly in presentation order.
type Stream struct {
	path string
	opts Options
	info Info

	mu     sync.Mutex
	proc   *pipeProc
	frames uint64
	eof    bool
	closed bool
}

// Open probes path and starts decoding from its first (or trimmed) frame.
func Open(ctx context.Context, path string, opts Options) (*Stream, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	if opts.FPSCap > 0 && opts.FPSCap < info.FPS {
		info.FPS = opts.FPSCap
	}

	s := &Stream{
		path: path,
		opts: opts,
		info: info,
	}

	s.proc, err = startPipe(path, info, opts)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Info returns the probed stream metadata. The FPS reflects any cap from
// [Options].
func (s *Stream) Info() Info {
	return s.info
}

// FrameInterval returns the duration of one source frame at the effective
// frame rate.
func (s *Stream) FrameInterval() float64 {
	if s.info.FPS <= 0 {
		return 1.0 / fallbackFPS
	}

	return 1.0 / s.info.FPS
}

// Next returns the next frame, or [io.EOF] once the stream is exhausted.
// An exhausted stream keeps returning [io.EOF] until [Stream.Restart].
// It blocks until a full frame has been read from the decoder.
func (s *Stream) Next() (*Frame, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return nil, ErrClosed
	}

	if s.eof {
		s.mu.Unlock()

		return nil, io.EOF
	}

	proc := s.proc
	num := s.frames
	s.frames++
	s.mu.Unlock()

	buf := make([]byte, proc.frameSize())

	_, err := io.ReadFull(proc.stdout, buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.mu.Lock()
			// Latch only if no restart swapped the pipe mid-read.
			if s.proc == proc {
				s.eof = true
			}
			s.mu.Unlock()

			proc.stop()

			return nil, io.EOF
		}

		return nil, fmt.Errorf("%w: reading frame %d: %w (%s)", ErrDecode, num, err, proc.stderrTail())
	}

	frame := &Frame{
		RGBA: &image.RGBA{
			Pix:    buf,
			Stride: s.info.Width * 4,
			Rect:   image.Rect(0, 0, s.info.Width, s.info.Height),
		},
		Timestamp: s.opts.StartTime + float64(num)*s.FrameInterval(),
		Number:    num,
	}

	return frame, nil
}

// Restart rewinds to the first frame by replacing the decoder pipe.
// A concurrent Next on the old pipe fails; callers are expected to discard
// its result.
func (s *Stream) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.proc.stop()

	proc, err := startPipe(s.path, s.info, s.opts)
	if err != nil {
		return err
	}

	s.proc = proc
	s.frames = 0
	s.eof = false

	slog.Debug("decoder restarted", "path", s.path)

	return nil
}

// Close stops the decoder process. The stream cannot be reused.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.proc.stop()

	return nil
}

// pipeProc is one running ffmpeg rawvideo process.
type pipeProc struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	cancel context.CancelFunc
	width  int
	height int
}

// startPipe launches ffmpeg decoding path to raw RGBA frames on stdout at
// the source resolution.
func startPipe(path string, info Info, opts Options) (*pipeProc, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH (install ffmpeg)", ErrDecoderUnavailable)
	}

	args := []string{"-v", "error"}

	if opts.StartTime > 0 {
		args = append(args, "-ss", fmt.Sprintf("%g", opts.StartTime))
	}

	if opts.EndTime > opts.StartTime {
		args = append(args, "-t", fmt.Sprintf("%g", opts.EndTime-opts.StartTime))
	}

	args = append(args, "-i", path)

	if opts.FPSCap > 0 {
		args = append(args, "-vf", fmt.Sprintf("fps=%g", info.FPS))
	}

	args = append(args,
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"pipe:1",
	)

	ctx, cancel := context.WithCancel(context.Background())

	//nolint:gosec // path and options are user-provided CLI arguments, not untrusted input.
	cmd := exec.CommandContext(ctx, ffmpeg, args...)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: creating stdout pipe: %w", ErrOpen, err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: starting ffmpeg: %w", ErrOpen, err)
	}

	return &pipeProc{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		cancel: cancel,
		width:  info.Width,
		height: info.Height,
	}, nil
}

func (p *pipeProc) frameSize() int {
	return p.width * p.height * 4
}

// stop cancels the ffmpeg process and waits for it to exit.
func (p *pipeProc) stop() {
	p.cancel()
	//nolint:errcheck // Error is expected after context cancellation.
	p.cmd.Wait()
}

// stderrTail returns the last captured line of ffmpeg's stderr for error
// context.
func (p *pipeProc) stderrTail() string {
	lines := bytes.Split(bytes.TrimSpace(p.stderr.Bytes()), []byte("\n"))

	tail := bytes.TrimSpace(lines[len(lines)-1])
	if len(tail) == 0 {
		return "no ffmpeg diagnostics"
	}

	return string(tail)
}
