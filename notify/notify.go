// Package notify pushes playback status to a sketchybar item.
//
// Notifications are strictly best-effort: a missing sketchybar binary or a
// failing command is logged at debug level and never surfaces to playback.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// commandTimeout bounds each sketchybar invocation so a wedged status bar
// cannot hold up process exit.
const commandTimeout = 2 * time.Second

// Notifier updates one named sketchybar item with playback status.
type Notifier struct {
	item    string
	command string
}

// New creates a Notifier for the given sketchybar item name.
func New(item string) *Notifier {
	return &Notifier{
		item:    item,
		command: "sketchybar",
	}
}

// Playing sets the item label to a playing indicator for name.
func (n *Notifier) Playing(name string) {
	n.set(fmt.Sprintf("▶ %s", name))
}

// Paused sets the item label to a paused indicator for name.
func (n *Notifier) Paused(name string) {
	n.set(fmt.Sprintf("⏸ %s", name))
}

// Stopped clears the item label.
func (n *Notifier) Stopped() {
	n.set("")
}

func (n *Notifier) set(label string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	//nolint:gosec // The item name is a user-provided CLI argument.
	cmd := exec.CommandContext(ctx, n.command, "--set", n.item, "label", label)

	out, err := cmd.CombinedOutput()
	if err != nil {
		slog.Debug("status notification failed",
			"item", n.item, "error", err, "output", string(out))

		return
	}

	slog.Debug("status notification sent", "item", n.item, "label", label)
}
