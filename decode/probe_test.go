package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeOutput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data        string
		expected    Info
		expectError bool
	}{
		"full stream": {
			data: `{"streams":[{"width":1920,"height":1080,"avg_frame_rate":"30000/1001","duration":"12.500000"}]}`,
			expected: Info{
				Width:    1920,
				Height:   1080,
				FPS:      30000.0 / 1001.0,
				Duration: 12.5,
			},
		},
		"missing duration": {
			data: `{"streams":[{"width":640,"height":480,"avg_frame_rate":"24/1"}]}`,
			expected: Info{
				Width:  640,
				Height: 480,
				FPS:    24,
			},
		},
		"no streams": {
			data:        `{"streams":[]}`,
			expectError: true,
		},
		"zero dimensions": {
			data:        `{"streams":[{"width":0,"height":0,"avg_frame_rate":"24/1"}]}`,
			expectError: true,
		},
		"invalid json": {
			data:        `{"streams":`,
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			info, err := parseProbeOutput([]byte(tc.data), "test.mp4")
			if tc.expectError {
				require.ErrorIs(t, err, ErrOpen)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected.Width, info.Width)
				assert.Equal(t, tc.expected.Height, info.Height)
				assert.InDelta(t, tc.expected.FPS, info.FPS, 1e-9)
				assert.InDelta(t, tc.expected.Duration, info.Duration, 1e-9)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected float64
	}{
		"ntsc rational": {input: "30000/1001", expected: 30000.0 / 1001.0},
		"whole rational": {input: "25/1", expected: 25},
		"plain number":   {input: "29.97", expected: 29.97},
		"zero denominator falls back": {input: "25/0", expected: fallbackFPS},
		"zero numerator falls back":   {input: "0/1", expected: fallbackFPS},
		"garbage falls back":          {input: "n/a", expected: fallbackFPS},
		"empty falls back":            {input: "", expected: fallbackFPS},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tc.expected, parseRate(tc.input), 1e-9)
		})
	}
}

func TestAspectRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 16.0/9.0, Info{Width: 1920, Height: 1080}.AspectRatio(), 1e-9)
	assert.Zero(t, Info{}.AspectRatio())
}
