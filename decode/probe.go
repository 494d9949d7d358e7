package decode

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// fallbackFPS is assumed when the container reports no usable frame rate.
const fallbackFPS = 25.0

// Info describes the video stream of a media file.
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Duration float64 // Seconds; zero when the container does not report one.
}

// AspectRatio returns the source width:height ratio.
func (i Info) AspectRatio() float64 {
	if i.Height == 0 {
		return 0
	}

	return float64(i.Width) / float64(i.Height)
}

// probeOutput mirrors the ffprobe -of json stream fields we ask for.
type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

// Probe inspects the first video stream of the file at path.
func Probe(ctx context.Context, path string) (Info, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return Info{}, fmt.Errorf("%w: ffprobe not found in PATH (install ffmpeg)", ErrDecoderUnavailable)
	}

	//nolint:gosec // path is a user-provided CLI argument, not untrusted input.
	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("%w: probing %s: %w", ErrOpen, path, err)
	}

	return parseProbeOutput(out, path)
}

func parseProbeOutput(data []byte, path string) (Info, error) {
	var probed probeOutput

	err := json.Unmarshal(data, &probed)
	if err != nil {
		return Info{}, fmt.Errorf("%w: parsing ffprobe output: %w", ErrOpen, err)
	}

	if len(probed.Streams) == 0 {
		return Info{}, fmt.Errorf("%w: no video stream found in %s", ErrOpen, path)
	}

	s := probed.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return Info{}, fmt.Errorf("%w: %s reports %dx%d video", ErrOpen, path, s.Width, s.Height)
	}

	info := Info{
		Width:  s.Width,
		Height: s.Height,
		FPS:    parseRate(s.AvgFrameRate),
	}

	if dur, durErr := strconv.ParseFloat(s.Duration, 64); durErr == nil && dur > 0 {
		info.Duration = dur
	}

	return info, nil
}

// parseRate parses an ffprobe rational like "30000/1001". Unusable values
// fall back to 25 FPS rather than failing the open.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			return v
		}

		return fallbackFPS
	}

	n, nErr := strconv.ParseFloat(num, 64)
	d, dErr := strconv.ParseFloat(den, 64)

	if nErr != nil || dErr != nil || d == 0 || n <= 0 {
		return fallbackFPS
	}

	return n / d
}
