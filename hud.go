package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// hudHeight is the number of rows RenderHUD occupies.
const hudHeight = 3

// HUDState is the player status shown above the canvas.
type HUDState struct {
	Caught    bool
	Frame     int
	Elapsed   time.Duration
	Fragments int
	PenColor  string
	PenWidth  float64
	PenDown   bool
	Eraser    bool
	Status    string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			Background(lipgloss.Color("#1A0033"))
	liveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	caughtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	faintStyle  = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#888888"))
)

// RenderHUD draws the title bar and status line.
func RenderHUD(s HUDState, width int) string {
	var output strings.Builder

	output.WriteString(titleStyle.Width(width).Align(lipgloss.Center).Render("~ NOISE LOOP ~"))
	output.WriteString("\n")

	mode := liveStyle.Render("● LIVE")
	if s.Caught {
		mode = caughtStyle.Render("■ CAUGHT")
	}
	output.WriteString(mode)
	output.WriteString(labelStyle.Render("  frame "))
	output.WriteString(valueStyle.Render(fmt.Sprintf("%03d/%d", s.Frame, LoopFrames)))
	output.WriteString(labelStyle.Render("  t "))
	output.WriteString(valueStyle.Render(formatLoopTime(s.Elapsed)))
	output.WriteString(labelStyle.Render("  fragments "))
	output.WriteString(valueStyle.Render(fmt.Sprintf("%d", s.Fragments)))

	if s.Caught {
		tool := "pen"
		if s.Eraser {
			tool = "eraser"
		}
		state := "up"
		if s.PenDown {
			state = "down"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.PenColor)).Render("██")
		output.WriteString(labelStyle.Render("  " + tool + " "))
		output.WriteString(swatch)
		output.WriteString(valueStyle.Render(fmt.Sprintf(" %.0fpx %s", s.PenWidth, state)))
	}
	output.WriteString("\n")

	output.WriteString(faintStyle.Render(truncateString(s.Status, width)))
	return output.String()
}

func formatLoopTime(elapsed time.Duration) string {
	phase := LoopPhase(elapsed)
	return fmt.Sprintf("%02d.%d", int(phase/time.Second), int(phase%time.Second/(100*time.Millisecond)))
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
