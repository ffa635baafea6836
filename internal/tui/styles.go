package tui

import "github.com/charmbracelet/lipgloss"

// Palette loosely follows the BrewBlox dashboard colors.
var (
	PrimaryColor   = lipgloss.Color("39")  // blue
	SecondaryColor = lipgloss.Color("42")  // green
	MutedColor     = lipgloss.Color("241") // grey
	ErrorColor     = lipgloss.Color("196") // red
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	RecordStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	IDStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	AddrStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor)
)
