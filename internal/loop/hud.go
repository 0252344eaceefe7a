package loop

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/draw"
	"github.com/tomz197/convoy/internal/sim"
)

const controlsHelp = "WASD/arrows drive  q quit"

// hud draws the status line and collision flash over the canvas.
type hud struct {
	label lipgloss.Style
	value lipgloss.Style
	alert lipgloss.Style
	help  lipgloss.Style

	flashRemaining float64 // Seconds left on the HIT banner
}

func newHUD(r *lipgloss.Renderer) *hud {
	return &hud{
		label: r.NewStyle().Faint(true),
		value: r.NewStyle().Bold(true),
		alert: r.NewStyle().Bold(true).Reverse(true).Foreground(lipgloss.Color("9")).Padding(0, 1),
		help:  r.NewStyle().Faint(true),
	}
}

// flash shows the HIT banner for HitFlashSeconds.
func (h *hud) flash() {
	h.flashRemaining = config.HitFlashSeconds
}

// update counts down the HIT banner.
func (h *hud) update(delta time.Duration) {
	h.flashRemaining = math.Max(0, h.flashRemaining-delta.Seconds())
}

func (h *hud) flashing() bool {
	return h.flashRemaining > 0
}

// status is the plain status line text for the player.
func status(snap sim.Snapshot) []string {
	p := snap.Player()
	degrees := p.Pose.Heading * 180 / math.Pi
	return []string{
		"speed", fmt.Sprintf("%6.3f", p.Velocity),
		"heading", fmt.Sprintf("%4.0f°", degrees),
		"tick", fmt.Sprintf("%d", snap.Tick),
		"hits", fmt.Sprintf("%d", snap.TotalCollisions),
	}
}

// draw writes the HUD. Coordinates are 1-based canvas cells.
func (h *hud) draw(cw *draw.ChunkWriter, snap sim.Snapshot, width, height int) {
	if len(snap.Cars) == 0 || width <= 0 || height <= 0 {
		return
	}

	fields := status(snap)
	line := ""
	for i := 0; i < len(fields); i += 2 {
		line += h.label.Render(fields[i]+" ") + h.value.Render(fields[i+1]) + "  "
	}
	cw.WriteAt(1, 1, line)

	if h.flashing() {
		banner := h.alert.Render("HIT")
		col := max(1, (width-lipgloss.Width(banner))/2+1)
		cw.WriteAt(col, 2, banner)
	}

	if height > 2 {
		cw.WriteAt(1, height, h.help.Render(controlsHelp))
	}
}
