package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	numBands = 10
	barWidth = 5 // character width of each spectrum bar

	// dBFloor/dBCeil bound the normalization range for the dBFS bands
	// internal/telemetry reports (floored at -100dB); 0dB is full
	// scale, so most music sits well under it.
	dBFloor = -100.0
	dBCeil  = -10.0
)

// Unicode block elements for bar height (9 levels including space)
var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Pre-built styles for spectrum bar colors to avoid per-frame allocation.
var (
	specLowStyle  = lipgloss.NewStyle().Foreground(spectrumLow)
	specMidStyle  = lipgloss.NewStyle().Foreground(spectrumMid)
	specHighStyle = lipgloss.NewStyle().Foreground(spectrumHigh)
)

// Visualizer renders spectrum bars from a precomputed dBFS band
// snapshot. The FFT itself runs once, server-side, in
// internal/telemetry.Analyzer; this package only normalizes and
// draws, so a shell never duplicates the analysis the engine already
// did for get_vibe_data/get_fft_data.
type Visualizer struct {
	prev [numBands]float64 // previous frame for temporal smoothing
}

// NewVisualizer returns a Visualizer with no prior frame.
func NewVisualizer() *Visualizer {
	return &Visualizer{}
}

// Normalize maps dBFS band levels into smoothed 0-1 bar heights, fast
// attack / slow decay so transients read clearly without flickering.
func (v *Visualizer) Normalize(bandsDB [numBands]float64) [numBands]float64 {
	var out [numBands]float64
	for b, db := range bandsDB {
		level := (db - dBFloor) / (dBCeil - dBFloor)
		level = max(0, min(1, level))

		if level > v.prev[b] {
			level = level*0.6 + v.prev[b]*0.4
		} else {
			level = level*0.25 + v.prev[b]*0.75
		}
		out[b] = level
		v.prev[b] = level
	}
	return out
}

// RenderDynamic converts band levels into a spectrum bar string sized to fit the given width.
// It uses all 10 bands and computes bar width to fill the available space.
func (v *Visualizer) RenderDynamic(bands [numBands]float64, availWidth int) string {
	if availWidth < numBands {
		return ""
	}
	// availWidth = numBands*bw + (numBands-1) separators
	bw := (availWidth - (numBands - 1)) / numBands
	if bw < 1 {
		bw = 1
	}

	var sb strings.Builder
	for i, level := range bands {
		idx := int(level * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))
		block := barBlocks[idx]

		var style lipgloss.Style
		switch {
		case level > 0.75:
			style = specHighStyle
		case level > 0.45:
			style = specMidStyle
		default:
			style = specLowStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, bw)))
		if i < numBands-1 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// Render converts band levels into a colored spectrum bar string.
func (v *Visualizer) Render(bands [numBands]float64) string {
	var sb strings.Builder

	for i, level := range bands {
		idx := int(level * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))

		block := barBlocks[idx]

		// Color gradient: green -> yellow -> red based on level
		var style lipgloss.Style
		switch {
		case level > 0.75:
			style = specHighStyle
		case level > 0.45:
			style = specMidStyle
		default:
			style = specLowStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, barWidth)))
		if i < numBands-1 {
			sb.WriteString(" ")
		}
	}

	return sb.String()
}
