package player

// Speed factor bounds and keystep. Repeated speed keys saturate at the
// bounds instead of erroring, which keeps key-repeat robust.
const (
	MinSpeed  = 0.25
	MaxSpeed  = 4.0
	SpeedStep = 1.25
)

// State holds the mutable playback controls. It is mutated only inside the
// model's Update, giving it a single writer for the whole session.
type State struct {
	Paused      bool
	Speed       float64
	Loop        bool
	Transparent bool
}

// NewState returns a State with the given initial settings. Speed is
// clamped into [MinSpeed, MaxSpeed]; non-positive values fall back to 1.
func NewState(speed float64, loop, transparent bool) State {
	if speed <= 0 {
		speed = 1
	}

	return State{
		Speed:       clampSpeed(speed),
		Loop:        loop,
		Transparent: transparent,
	}
}

// TogglePause flips the pause flag and reports the new value.
func (s *State) TogglePause() bool {
	s.Paused = !s.Paused

	return s.Paused
}

// SpeedUp multiplies the speed factor by one step, saturating at MaxSpeed.
// It reports whether the speed changed.
func (s *State) SpeedUp() bool {
	prev := s.Speed
	s.Speed = clampSpeed(s.Speed * SpeedStep)

	return s.Speed != prev
}

// SpeedDown divides the speed factor by one step, saturating at MinSpeed.
// It reports whether the speed changed.
func (s *State) SpeedDown() bool {
	prev := s.Speed
	s.Speed = clampSpeed(s.Speed / SpeedStep)

	return s.Speed != prev
}

// ToggleLoop flips the loop flag and reports the new value.
func (s *State) ToggleLoop() bool {
	s.Loop = !s.Loop

	return s.Loop
}

func clampSpeed(v float64) float64 {
	if v < MinSpeed {
		return MinSpeed
	}

	if v > MaxSpeed {
		return MaxSpeed
	}

	return v
}
