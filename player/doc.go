// Package player drives interactive playback of a decoded video stream as
// colored glyphs in the terminal.
//
// It is a Bubble Tea program: all playback state is owned by the model and
// mutated only inside Update, so key presses, terminal resizes, frame
// arrival, and pacing ticks are serialized by construction. A [Clock] paces
// presentation against the source frame rate and the current speed factor;
// [State] holds the pause/speed/loop/transparency controls.
package player
