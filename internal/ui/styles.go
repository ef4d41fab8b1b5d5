package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#00AFFF")
	colorSecondary = lipgloss.Color("#39FF14")
	colorMuted     = lipgloss.Color("#6C6C6C")
	colorCharging  = lipgloss.Color("#33CC33")
	colorLow       = lipgloss.Color("#CC3333")
	colorDraining  = lipgloss.Color("#3366CC")
	colorFull      = lipgloss.Color("#00B300")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleSubtitle = lipgloss.NewStyle().Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorMuted)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleFooter   = lipgloss.NewStyle().Foreground(colorMuted).PaddingTop(1)
	styleContent  = lipgloss.NewStyle().Padding(0, 2)
)
