package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/asciiplay/player"
)

func TestNewStateClampsSpeed(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		speed    float64
		expected float64
	}{
		"normal":        {speed: 1.0, expected: 1.0},
		"below minimum": {speed: 0.01, expected: player.MinSpeed},
		"above maximum": {speed: 100, expected: player.MaxSpeed},
		"zero falls back": {speed: 0, expected: 1.0},
		"negative falls back": {speed: -2, expected: 1.0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := player.NewState(tc.speed, false, false)
			assert.InDelta(t, tc.expected, s.Speed, 1e-9)
		})
	}
}

func TestTogglePauseRoundTrip(t *testing.T) {
	t.Parallel()

	s := player.NewState(1, false, false)

	assert.True(t, s.TogglePause())
	assert.True(t, s.Paused)

	assert.False(t, s.TogglePause())
	assert.False(t, s.Paused)
}

func TestSpeedSaturates(t *testing.T) {
	t.Parallel()

	s := player.NewState(1, false, false)

	for range 50 {
		s.SpeedUp()
		assert.LessOrEqual(t, s.Speed, player.MaxSpeed)
		assert.Positive(t, s.Speed)
	}

	assert.InDelta(t, player.MaxSpeed, s.Speed, 1e-9)
	assert.False(t, s.SpeedUp(), "saturated speed should report no change")

	for range 50 {
		s.SpeedDown()
		assert.GreaterOrEqual(t, s.Speed, player.MinSpeed)
		assert.Positive(t, s.Speed)
	}

	assert.InDelta(t, player.MinSpeed, s.Speed, 1e-9)
	assert.False(t, s.SpeedDown(), "saturated speed should report no change")
}

func TestToggleLoop(t *testing.T) {
	t.Parallel()

	s := player.NewState(1, true, false)

	assert.False(t, s.ToggleLoop())
	assert.True(t, s.ToggleLoop())
	assert.True(t, s.Loop)
}
