package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/cwbudde/algo-loudness/measure/loudness"
	"github.com/cwbudde/algo-loudness/measure/peak"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2E86C1")
	warnColor    = lipgloss.Color("#C0392B")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SectionStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render("r128scan"))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message.
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSummary prints the final measurements of one file.
func PrintSummary(w io.Writer, path string, s loudness.Snapshot) {
	row := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(key), ValueStyle.Render(value))
	}

	fmt.Fprintln(w, TitleStyle.Render(path))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("Duration:"), s.Time)

	fmt.Fprintln(w, SectionStyle.Render("Integrated loudness"))
	row("I:", s.I.LUFS())
	row("Threshold:", s.IThreshold.LUFS())

	fmt.Fprintln(w, SectionStyle.Render("Loudness range"))
	row("LRA:", s.LRA.LU())
	row("Threshold:", s.LRAThreshold.LUFS())
	row("LRA low:", s.LRALow.LUFS())
	row("LRA high:", s.LRAHigh.LUFS())

	if s.PeakMode.Has(peak.ModeSample) {
		fmt.Fprintln(w, SectionStyle.Render("Sample peak"))
		row("Peak:", s.SamplePeak.DB("dBFS"))
	}

	if s.PeakMode.Has(peak.ModeTrue) {
		fmt.Fprintln(w, SectionStyle.Render("True peak"))
		row("Peak:", s.TruePeak.DB("dBTP"))
	}

	fmt.Fprintln(w)
}
